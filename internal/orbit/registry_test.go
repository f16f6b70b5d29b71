package orbit_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/orbit"
)

var _ = Describe("Registry", func() {
	It("keeps the central body apart from orbiters in registry order", func() {
		reg := mustRegistry(sun, solarSpecs())
		Expect(reg.Central().Name()).To(Equal("Sun"))
		Expect(reg.Len()).To(Equal(5))

		names := []string{}
		for _, b := range reg.Orbiters() {
			names = append(names, b.Name())
		}
		Expect(names).To(Equal([]string{"Earth", "Mars", "Venus", "Mercury"}))
		Expect(reg.Bodies()[0]).To(BeIdenticalTo(reg.Central()))
	})

	It("exposes immutable attributes and lookups", func() {
		reg := mustRegistry(sun, solarSpecs())
		b, ok := reg.Lookup("Venus")
		Expect(ok).To(BeTrue())
		Expect(b.Mass()).To(Equal(2.4e-6))
		Expect(b.Color()).To(Equal("orange"))
		Expect(b.TrackTrail()).To(BeTrue())

		_, ok = reg.Lookup("Pluto")
		Expect(ok).To(BeFalse())
	})

	It("applies trail capacity and separation options", func() {
		reg := mustRegistry(sun, solarSpecs(), orbit.WithTrailCapacity(10), orbit.WithMinSeparation(0.1))
		Expect(reg.TrailCapacity()).To(Equal(10))
		Expect(reg.MinSeparation()).To(Equal(0.1))
		earth, _ := reg.Lookup("Earth")
		Expect(earth.Trail().Cap()).To(Equal(10))
	})

	It("does not allocate a trail for untracked bodies", func() {
		reg := mustRegistry(sun, []orbit.BodySpec{{Name: "Rock", Mass: 1e-9, Position: r2.Vec{X: 2}}})
		rock, _ := reg.Lookup("Rock")
		Expect(rock.Trail()).To(BeNil())
		rock.AppendTrailSample(r2.Vec{X: 3})
		Expect(rock.TrailLen()).To(Equal(0))
	})

	DescribeTable("rejects invalid initial conditions",
		func(central orbit.BodySpec, orbiter orbit.BodySpec, want error, body string) {
			_, err := orbit.NewRegistry(central, []orbit.BodySpec{orbiter})
			Expect(err).To(MatchError(want))

			var cfgErr *orbit.ConfigError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Body).To(Equal(body))
		},
		Entry("orbiter on the central body", sun,
			orbit.BodySpec{Name: "Earth", Mass: 3e-6}, orbit.ErrDegenerateConfiguration, "Earth"),
		Entry("zero mass", sun,
			orbit.BodySpec{Name: "Earth", Mass: 0, Position: r2.Vec{X: 1}}, orbit.ErrInvalidMass, "Earth"),
		Entry("negative central mass", orbit.BodySpec{Name: "Sun", Mass: -1},
			earthSpec(), orbit.ErrInvalidMass, "Sun"),
		Entry("NaN position", sun,
			orbit.BodySpec{Name: "Earth", Mass: 3e-6, Position: r2.Vec{X: math.NaN()}}, orbit.ErrNonFinite, "Earth"),
		Entry("infinite velocity", sun,
			orbit.BodySpec{Name: "Earth", Mass: 3e-6, Position: r2.Vec{X: 1}, Velocity: r2.Vec{Y: math.Inf(1)}}, orbit.ErrNonFinite, "Earth"),
		Entry("duplicate name", sun,
			orbit.BodySpec{Name: "Sun", Mass: 3e-6, Position: r2.Vec{X: 1}}, orbit.ErrDuplicateName, "Sun"),
		Entry("empty name", sun,
			orbit.BodySpec{Mass: 3e-6, Position: r2.Vec{X: 1}}, orbit.ErrEmptyName, ""),
		Entry("moving central body", orbit.BodySpec{Name: "Sun", Mass: 1, Velocity: r2.Vec{X: 1}},
			earthSpec(), orbit.ErrCentralMoving, "Sun"),
		Entry("orbiter heavier than central", sun,
			orbit.BodySpec{Name: "Jupiter", Mass: 2, Position: r2.Vec{X: 5}}, orbit.ErrMassOrdering, "Jupiter"),
	)

	It("rejects a zero trail capacity", func() {
		_, err := orbit.NewRegistry(sun, nil, orbit.WithTrailCapacity(0))
		Expect(err).To(MatchError(orbit.ErrInvalidCapacity))
	})

	It("rejects an orbiter inside the configured minimum separation", func() {
		_, err := orbit.NewRegistry(sun, []orbit.BodySpec{earthSpec()}, orbit.WithMinSeparation(1.5))
		Expect(err).To(MatchError(orbit.ErrDegenerateConfiguration))
	})

	It("accepts a registry with no orbiters", func() {
		reg := mustRegistry(sun, nil)
		Expect(orbit.NewIntegrator(reg).Step(orbit.DefaultTimestep)).To(Succeed())
	})
})
