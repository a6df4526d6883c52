// File: geometry/example_test.go
package geometry_test

import (
	"fmt"

	"github.com/katalvlaran/usgflow/geometry"
)

////////////////////////////////////////////////////////////////////////////////
// Example: IsClockwise
////////////////////////////////////////////////////////////////////////////////

// ExampleIsClockwise shows the orientation test on a unit square given in
// both windings.
func ExampleIsClockwise() {
	fmt.Println(geometry.IsClockwise([]float64{0, 1, 1, 0}, []float64{0, 0, 1, 1}))
	fmt.Println(geometry.IsClockwise([]float64{0, 0, 1, 1}, []float64{0, 1, 1, 0}))
	// Output:
	// false
	// true
}

////////////////////////////////////////////////////////////////////////////////
// Example: SharesEdge
////////////////////////////////////////////////////////////////////////////////

// ExampleSharesEdge contrasts an edge neighbour with a corner neighbour.
// Scenario (vertex indices):
//
//	0───1───2
//	│ A │ B │
//	3───4───5
//	│ C │ D │
//	6───7───8
func ExampleSharesEdge() {
	a := []int{0, 1, 4, 3}
	b := []int{1, 2, 5, 4}
	d := []int{4, 5, 8, 7}
	fmt.Println("A-B:", geometry.SharesEdge(a, b))
	fmt.Println("A-D:", geometry.SharesEdge(a, d))
	// Output:
	// A-B: true
	// A-D: false
}

////////////////////////////////////////////////////////////////////////////////
// Example: PolygonSet
////////////////////////////////////////////////////////////////////////////////

// ExamplePolygonSet_Locate locates points in a row of three unit cells.
func ExamplePolygonSet_Locate() {
	var cells []geometry.Polygon
	for j := 0; j < 3; j++ {
		x := float64(j)
		cells = append(cells, geometry.Polygon{{X: x, Y: 1}, {X: x + 1, Y: 1}, {X: x + 1, Y: 0}, {X: x, Y: 0}})
	}
	set := geometry.NewPolygonSet(cells)
	fmt.Println(set.Locate(0.5, 0.5), set.Locate(2.2, 0.9), set.Locate(5, 5))
	// Output:
	// 0 2 -1
}

////////////////////////////////////////////////////////////////////////////////
// Example: OverlapArea
////////////////////////////////////////////////////////////////////////////////

// ExampleOverlapArea intersects two offset squares.
func ExampleOverlapArea() {
	a := geometry.Polygon{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	b := geometry.Polygon{{X: 1, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 3}, {X: 1, Y: 3}}
	fmt.Printf("%.2f\n", geometry.OverlapArea(a, b))
	// Output:
	// 1.00
}
