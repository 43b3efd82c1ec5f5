package e2e

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/versolve/versolve/pkg/versolve"
	"github.com/versolve/versolve/pkg/versolve/registry"
	"github.com/versolve/versolve/pkg/versolve/solver"
	"github.com/versolve/versolve/pkg/versolve/version"
)

var _ = Describe("Resolving a dependency graph", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	When("the registry is loaded from a YAML file", func() {
		var reg *registry.Fixture

		BeforeEach(func() {
			var err error
			reg, err = registry.LoadFile("testdata/registry.yaml")
			Expect(err).To(BeNil())
		})

		It("selects the highest mutually compatible versions", func() {
			solution, err := solver.New(reg).Solve(ctx, "app", version.MustParse("1.0.0"))
			Expect(err).To(BeNil())
			Expect(solution.Error()).To(BeNil())

			selection := solution.Selection()
			Expect(selection).To(HaveLen(3))
			Expect(selection[versolve.Package("app")].String()).To(Equal("1.0.0"))
			Expect(selection[versolve.Package("web")].String()).To(Equal("1.2.0"))
			// json is pinned to ~2.1.0 by app, so 2.2.0 is out of reach
			Expect(selection[versolve.Package("json")].String()).To(Equal("2.1.5"))
		})

		It("reuses the registry across independent solves", func() {
			first, err := solver.New(reg).Solve(ctx, "app", version.MustParse("1.0.0"))
			Expect(err).To(BeNil())
			second, err := solver.New(reg).Solve(ctx, "app", version.MustParse("1.0.0"))
			Expect(err).To(BeNil())

			Expect(second.Selection()).To(Equal(first.Selection()))
		})
	})

	When("the constraints cannot be satisfied", func() {
		var reg *registry.Fixture

		BeforeEach(func() {
			reg = registry.NewFixture().
				Add("app", "1.0.0", map[versolve.Package]string{"lib": "^3.0.0"}).
				Add("lib", "1.0.0", nil).
				Add("lib", "2.0.0", nil)
		})

		It("explains the failure instead of returning a bare error", func() {
			solution, err := solver.New(reg).Solve(ctx, "app", version.MustParse("1.0.0"))
			Expect(err).To(BeNil())
			Expect(solution.Error()).To(HaveOccurred())
			Expect(solution.Error().Error()).To(ContainSubstring("not satisfiable"))

			explanation := solution.Explanation()
			Expect(explanation).NotTo(BeEmpty())

			kinds := make([]versolve.CauseKind, 0, len(explanation))
			for _, in := range explanation {
				kinds = append(kinds, in.Cause().Kind)
			}
			Expect(kinds).To(ContainElement(versolve.CauseNoVersionsAvailable))
		})
	})

	When("packages exclude each other transitively", func() {
		var reg *registry.Fixture

		BeforeEach(func() {
			reg = registry.NewFixture().
				Add("app", "1.0.0", map[versolve.Package]string{"left": "^1.0.0", "right": "^1.0.0"}).
				Add("left", "1.0.0", map[versolve.Package]string{"shared": "^1.0.0"}).
				Add("left", "1.1.0", map[versolve.Package]string{"shared": "^2.0.0"}).
				Add("right", "1.0.0", map[versolve.Package]string{"shared": "^1.0.0"}).
				Add("shared", "1.0.0", nil).
				Add("shared", "2.0.0", nil)
		})

		It("backjumps to a compatible combination", func() {
			solution, err := solver.New(reg).Solve(ctx, "app", version.MustParse("1.0.0"))
			Expect(err).To(BeNil())
			Expect(solution.Error()).To(BeNil())

			selection := solution.Selection()
			Expect(selection[versolve.Package("left")].String()).To(Equal("1.0.0"))
			Expect(selection[versolve.Package("right")].String()).To(Equal("1.0.0"))
			Expect(selection[versolve.Package("shared")].String()).To(Equal("1.0.0"))
		})
	})
})
