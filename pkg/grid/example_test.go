package grid_test

import (
	"fmt"

	"github.com/stacklume/stacklume/pkg/grid"
)

func ExampleDeriveBreakpoint() {
	canonical := grid.Arrangement{
		{ID: "clock", X: 0, Y: 0, W: 6, H: 2},
		{ID: "weather", X: 6, Y: 0, W: 6, H: 2},
	}

	derived := grid.DeriveBreakpoint(canonical, 12, 6, nil)
	for _, p := range derived {
		fmt.Printf("%s x:%d y:%d w:%d h:%d\n", p.ID, p.X, p.Y, p.W, p.H)
	}
	// Output:
	// clock x:0 y:0 w:3 h:2
	// weather x:3 y:0 w:3 h:2
}

func ExampleDeriveAll() {
	canonical := grid.Arrangement{
		{ID: "banner", X: 0, Y: 0, W: 12, H: 1},
	}

	derived := grid.DeriveAll(canonical, grid.DefaultProfiles())
	for _, name := range []string{"wide", "medium", "narrow"} {
		p := derived[name][0]
		fmt.Printf("%s: w:%d\n", name, p.W)
	}
	// Output:
	// wide: w:12
	// medium: w:10
	// narrow: w:6
}

func ExampleCompact() {
	items := grid.Arrangement{
		{ID: "header", X: 0, Y: 0, W: 6, H: 1},
		{ID: "chart", X: 0, Y: 4, W: 3, H: 2},
		{ID: "feed", X: 3, Y: 6, W: 3, H: 2},
	}

	for _, p := range grid.Compact(items, 6) {
		fmt.Printf("%s x:%d y:%d\n", p.ID, p.X, p.Y)
	}
	// Output:
	// header x:0 y:0
	// chart x:0 y:1
	// feed x:3 y:1
}

func ExampleProfileSet_Match() {
	profiles := grid.DefaultProfiles()

	for _, px := range []int{1440, 1024, 600} {
		fmt.Printf("%dpx -> %s\n", px, profiles.Match(px).Name)
	}
	// Output:
	// 1440px -> wide
	// 1024px -> medium
	// 600px -> narrow
}
