package catalog_test

import (
	"fmt"

	"github.com/styloxis/honeycomb/pkg/catalog"
)

func ExampleCatalog_Rank() {
	c := catalog.Default()
	for _, p := range c.Outer()[:3] {
		fmt.Println(c.Rank(p.ID), p.ID, p.Title)
	}
	// Output:
	// 0 p1 MMO
	// 1 p2 Undead zone
	// 2 p3 CoD zombie VR
}

func ExampleCompileFilter() {
	f, _ := catalog.CompileFilter(`"Pro" in tags`)
	ps, _ := f.Apply(catalog.Default())
	for _, p := range ps {
		fmt.Println(p.ID)
	}
	// Output:
	// p5
	// p6
}
