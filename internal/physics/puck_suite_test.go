package physics_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPuck(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Puck Suite")
}
