package mc_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMC(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "MC Engine Suite")
}
