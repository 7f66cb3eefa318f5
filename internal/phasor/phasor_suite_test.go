package phasor_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPhasor(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Phasor Suite")
}
