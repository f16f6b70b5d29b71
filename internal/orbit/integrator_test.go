package orbit_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/orbit"
)

var sun = orbit.BodySpec{Name: "Sun", Mass: 1.0, Color: "yellow"}

func earthSpec() orbit.BodySpec {
	return orbit.BodySpec{
		Name:       "Earth",
		Mass:       3e-6,
		Position:   r2.Vec{X: 1},
		Velocity:   r2.Vec{Y: 2 * math.Pi},
		Color:      "blue",
		TrackTrail: true,
	}
}

func solarSpecs() []orbit.BodySpec {
	return []orbit.BodySpec{
		earthSpec(),
		{Name: "Mars", Mass: 3.2e-7, Position: r2.Vec{X: 1.52}, Velocity: r2.Vec{Y: 2 * math.Pi / math.Sqrt(1.52)}, Color: "red", TrackTrail: true},
		{Name: "Venus", Mass: 2.4e-6, Position: r2.Vec{X: 0.72}, Velocity: r2.Vec{Y: 2 * math.Pi / math.Sqrt(0.72)}, Color: "orange", TrackTrail: true},
		{Name: "Mercury", Mass: 1.7e-7, Position: r2.Vec{X: 0.39}, Velocity: r2.Vec{Y: 2 * math.Pi / math.Sqrt(0.39)}, Color: "gray", TrackTrail: true},
	}
}

func mustRegistry(central orbit.BodySpec, orbiters []orbit.BodySpec, opts ...orbit.RegistryOption) *orbit.Registry {
	reg, err := orbit.NewRegistry(central, orbiters, opts...)
	Expect(err).NotTo(HaveOccurred())
	return reg
}

func run(in *orbit.Integrator, n int) {
	for i := 0; i < n; i++ {
		Expect(in.Step(orbit.DefaultTimestep)).To(Succeed())
	}
}

var _ = Describe("Integrator", func() {
	var (
		reg   *orbit.Registry
		integ *orbit.Integrator
		earth *orbit.Body
	)

	BeforeEach(func() {
		reg = mustRegistry(sun, []orbit.BodySpec{earthSpec()})
		integ = orbit.NewIntegrator(reg)
		earth, _ = reg.Lookup("Earth")
	})

	Describe("force law", func() {
		It("points from the body toward the central body with magnitude GMm/r²", func() {
			f := integ.Force(earth)
			Expect(f.X).To(BeNumerically("~", -orbit.GravitationalConstant*3e-6, 1e-18))
			Expect(f.Y).To(BeNumerically("==", 0))
		})

		It("keeps the inverse-square magnitude at r = 2", func() {
			earth.Position = r2.Vec{X: 0, Y: 2}
			a := integ.Acceleration(earth)
			Expect(r2.Norm(a)).To(BeNumerically("~", orbit.GravitationalConstant/4, 1e-12))
			Expect(a.Y).To(BeNumerically("<", 0))
		})
	})

	Describe("Step", func() {
		It("updates velocity before position", func() {
			dt := orbit.DefaultTimestep
			a := integ.Acceleration(earth)
			v := r2.Add(earth.Velocity, r2.Scale(dt, a))
			p := r2.Add(earth.Position, r2.Scale(dt, v))

			Expect(integ.Step(dt)).To(Succeed())
			Expect(earth.Velocity.X).To(BeNumerically("~", v.X, 1e-15))
			Expect(earth.Velocity.Y).To(BeNumerically("~", v.Y, 1e-15))
			Expect(earth.Position.X).To(BeNumerically("~", p.X, 1e-15))
			Expect(earth.Position.Y).To(BeNumerically("~", p.Y, 1e-15))
		})

		It("appends the new position to the trail", func() {
			Expect(integ.Step(orbit.DefaultTimestep)).To(Succeed())
			newest, ok := earth.Trail().Newest()
			Expect(ok).To(BeTrue())
			Expect(newest).To(Equal(earth.Position))
		})

		It("counts steps and simulated time", func() {
			run(integ, 10)
			Expect(integ.Steps()).To(Equal(10))
			Expect(integ.Time()).To(BeNumerically("~", 0.02, 1e-12))
		})

		DescribeTable("rejects invalid timesteps without mutating state",
			func(dt float64) {
				before := earth.Position
				err := integ.Step(dt)
				Expect(err).To(MatchError(orbit.ErrInvalidTimestep))
				Expect(earth.Position).To(Equal(before))
				Expect(earth.TrailLen()).To(Equal(0))
			},
			Entry("zero", 0.0),
			Entry("negative", -0.002),
			Entry("NaN", math.NaN()),
			Entry("+Inf", math.Inf(1)),
		)
	})

	Describe("central body", func() {
		It("stays bit-identical after many steps", func() {
			reg = mustRegistry(
				orbit.BodySpec{Name: "Sun", Mass: 1.0, Position: r2.Vec{X: 0.125, Y: -0.5}, TrackTrail: true},
				[]orbit.BodySpec{{Name: "Earth", Mass: 3e-6, Position: r2.Vec{X: 1.125, Y: -0.5}, Velocity: r2.Vec{Y: 2 * math.Pi}, TrackTrail: true}},
			)
			integ = orbit.NewIntegrator(reg)
			c := reg.Central()
			px, py := math.Float64bits(c.Position.X), math.Float64bits(c.Position.Y)

			run(integ, 1234)

			Expect(math.Float64bits(c.Position.X)).To(Equal(px))
			Expect(math.Float64bits(c.Position.Y)).To(Equal(py))
			Expect(c.Velocity).To(Equal(r2.Vec{}))
			Expect(c.TrailLen()).To(Equal(0))
		})
	})

	Describe("circular orbit", func() {
		It("keeps radius drift bounded over one period", func() {
			steps := int(math.Round(1.0 / orbit.DefaultTimestep))
			maxDrift := 0.0
			for i := 0; i < steps; i++ {
				Expect(integ.Step(orbit.DefaultTimestep)).To(Succeed())
				d := math.Abs(r2.Norm(earth.Position) - 1.0)
				maxDrift = math.Max(maxDrift, d)
			}
			Expect(maxDrift).To(BeNumerically("<", 0.02))
		})

		It("ends near r = 1 after 3000 steps", func() {
			run(integ, 3000)
			Expect(r2.Norm(earth.Position)).To(BeNumerically("~", 1.0, 0.05))
		})

		It("keeps every planet of the solar preset bound", func() {
			reg = mustRegistry(sun, solarSpecs())
			integ = orbit.NewIntegrator(reg)
			run(integ, 3000)
			for _, b := range reg.Orbiters() {
				r0 := r2.Norm(b.Spec().Position)
				Expect(r2.Norm(b.Position)).To(BeNumerically("~", r0, 0.1*r0), b.Name())
			}
		})
	})

	Describe("trails", func() {
		It("grows to min(steps, capacity) for tracked bodies only", func() {
			specs := solarSpecs()
			specs[1].TrackTrail = false
			reg = mustRegistry(sun, specs)
			integ = orbit.NewIntegrator(reg)
			mars, _ := reg.Lookup("Mars")
			earth, _ = reg.Lookup("Earth")

			for _, n := range []int{1, 250, 500, 501, 777} {
				run(integ, n-integ.Steps())
				Expect(earth.TrailLen()).To(Equal(min(n, 500)))
				Expect(mars.TrailLen()).To(Equal(0))
			}
		})

		It("evicts the first sample on step 501", func() {
			Expect(integ.Step(orbit.DefaultTimestep)).To(Succeed())
			first := earth.Position
			Expect(integ.Step(orbit.DefaultTimestep)).To(Succeed())
			second := earth.Position

			run(integ, 498)
			oldest, _ := earth.Trail().Oldest()
			Expect(oldest).To(Equal(first))

			Expect(integ.Step(orbit.DefaultTimestep)).To(Succeed())
			oldest, _ = earth.Trail().Oldest()
			Expect(oldest).To(Equal(second))
			Expect(earth.Trail().Points()).NotTo(ContainElement(first))
		})

		It("keeps samples in chronological order", func() {
			run(integ, 600)
			pts := earth.Trail().Points()
			Expect(pts).To(HaveLen(500))
			// counter-clockwise motion: polar angle increases between samples
			for i := 0; i+1 < len(pts); i++ {
				Expect(r2.Cross(pts[i], pts[i+1])).To(BeNumerically(">", 0))
			}
			newest, _ := earth.Trail().Newest()
			Expect(newest).To(Equal(earth.Position))
		})
	})

	Describe("determinism", func() {
		It("produces bit-identical trajectories for identical inputs", func() {
			a := orbit.NewIntegrator(mustRegistry(sun, solarSpecs()))
			b := orbit.NewIntegrator(mustRegistry(sun, solarSpecs()))
			run(a, 1500)
			run(b, 1500)

			for i, ba := range a.Registry().Orbiters() {
				bb := b.Registry().Orbiters()[i]
				Expect(ba.Position).To(Equal(bb.Position))
				Expect(ba.Velocity).To(Equal(bb.Velocity))
				Expect(ba.Trail().Points()).To(Equal(bb.Trail().Points()))
			}
		})
	})

	Describe("degenerate separation", func() {
		It("fails the whole step in strict mode", func() {
			reg = mustRegistry(sun, solarSpecs())
			integ = orbit.NewIntegrator(reg)
			mars, _ := reg.Lookup("Mars")
			mars.Position = reg.Central().Position
			earth, _ = reg.Lookup("Earth")
			before := earth.Position

			err := integ.Step(orbit.DefaultTimestep)
			Expect(err).To(MatchError(orbit.ErrDegenerateConfiguration))

			var stepErr *orbit.StepError
			Expect(err).To(BeAssignableToTypeOf(stepErr))
			Expect(err.(*orbit.StepError).Body).To(Equal("Mars"))
			Expect(earth.Position).To(Equal(before))
			Expect(integ.Steps()).To(Equal(0))
		})

		It("propagates non-finite values when strict mode is off", func() {
			integ = orbit.NewIntegrator(reg, orbit.WithStrict(false))
			earth.Position = reg.Central().Position
			Expect(integ.Step(orbit.DefaultTimestep)).To(Succeed())
			Expect(math.IsNaN(earth.Position.X) || math.IsInf(earth.Position.X, 0)).To(BeTrue())
		})
	})

	Describe("Reset", func() {
		It("rewinds bodies, trails and counters", func() {
			run(integ, 100)
			integ.Reset()
			Expect(earth.Position).To(Equal(r2.Vec{X: 1}))
			Expect(earth.Velocity).To(Equal(r2.Vec{Y: 2 * math.Pi}))
			Expect(earth.TrailLen()).To(Equal(0))
			Expect(integ.Steps()).To(Equal(0))
			Expect(integ.Time()).To(Equal(0.0))
		})
	})

	It("honours a custom gravitational constant", func() {
		integ = orbit.NewIntegrator(reg, orbit.WithGravitationalConstant(1))
		Expect(integ.G()).To(Equal(1.0))
		Expect(integ.Acceleration(earth).X).To(BeNumerically("~", -1, 1e-12))
	})
})
