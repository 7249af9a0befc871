package physics_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/physics"
)

var _ = Describe("Puck", func() {
	var p *physics.Puck

	BeforeEach(func() {
		p = physics.NewPuck()
	})

	Describe("closed form", func() {
		It("starts at the launch speed", func() {
			Expect(p.Velocity(10, 0)).To(BeNumerically("~", 10, 1e-12))
			Expect(p.Position(10, 0)).To(BeNumerically("~", 0, 1e-12))
		})

		It("comes to rest at the stop time", func() {
			stop := p.StopTime(10)
			Expect(stop).To(BeNumerically("~", 1.94559, 1e-4))
			Expect(p.Velocity(10, stop)).To(BeNumerically("~", 0, 1e-12))
		})

		It("decelerates by drag plus friction at launch", func() {
			want := -(p.Drag*10 + p.Friction*p.Mass*p.Gravity) / p.Mass
			Expect(p.Acceleration(10, 0)).To(BeNumerically("~", want, 1e-9))
		})

		It("matches the derivative of the velocity", func() {
			const h = 1e-6
			t := 0.7
			slope := (p.Velocity(10, t+h) - p.Velocity(10, t-h)) / (2 * h)
			Expect(p.Acceleration(10, t)).To(BeNumerically("~", slope, 1e-5))
		})
	})

	Describe("Shoot", func() {
		It("samples ticks+1 instants from launch to rest", func() {
			shot, err := p.Shoot(10, 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(shot.Times).To(HaveLen(21))
			Expect(shot.Velocities).To(HaveLen(21))
			Expect(shot.Positions).To(HaveLen(21))
			Expect(shot.Accelerations).To(HaveLen(21))
			Expect(shot.Times[0]).To(BeZero())
			Expect(shot.Times[20]).To(Equal(shot.StopTime))
			Expect(shot.Velocities[0]).To(BeNumerically("~", 10, 1e-12))
			Expect(shot.Velocities[20]).To(BeZero())
			Expect(shot.Distance()).To(BeNumerically("~", 5.01774, 1e-4))
		})

		It("moves forward monotonically", func() {
			shot, err := p.Shoot(20, 50)
			Expect(err).NotTo(HaveOccurred())
			for i := 1; i < len(shot.Positions); i++ {
				Expect(shot.Positions[i]).To(BeNumerically(">", shot.Positions[i-1]))
				Expect(shot.Velocities[i]).To(BeNumerically("<", shot.Velocities[i-1]))
			}
		})

		It("keeps a puck at rest in place", func() {
			shot, err := p.Shoot(0, 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(shot.StopTime).To(BeZero())
			Expect(shot.Times).To(Equal([]float64{0}))
			Expect(shot.Distance()).To(BeZero())
		})

		DescribeTable("rejects invalid input",
			func(mutate func(*physics.Puck), v0 float64, ticks int) {
				mutate(p)
				_, err := p.Shoot(v0, ticks)
				Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
			},
			Entry("zero mass", func(p *physics.Puck) { p.Mass = 0 }, 10.0, 20),
			Entry("negative drag", func(p *physics.Puck) { p.Drag = -0.3 }, 10.0, 20),
			Entry("zero friction", func(p *physics.Puck) { p.Friction = 0 }, 10.0, 20),
			Entry("NaN gravity", func(p *physics.Puck) { p.Gravity = math.NaN() }, 10.0, 20),
			Entry("negative speed", func(*physics.Puck) {}, -1.0, 20),
			Entry("infinite speed", func(*physics.Puck) {}, math.Inf(1), 20),
			Entry("no ticks", func(*physics.Puck) {}, 10.0, 0),
		)
	})

	Describe("Compare", func() {
		It("reports longer stops and distances for faster shots", func() {
			summaries, err := p.Compare([]float64{10, 20}, 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(summaries).To(HaveLen(2))
			Expect(summaries[0].V0).To(Equal(10.0))
			Expect(summaries[1].StopTime).To(BeNumerically("~", 2.32915, 1e-4))
			Expect(summaries[1].Distance).To(BeNumerically("~", 10.55647, 1e-4))
			Expect(summaries[1].StopTime).To(BeNumerically(">", summaries[0].StopTime))
			Expect(summaries[1].Distance).To(BeNumerically(">", summaries[0].Distance))
		})

		It("stops at the first invalid speed", func() {
			_, err := p.Compare([]float64{10, -5}, 20)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})
	})
})
