package trace

import (
	"testing"

	"page-tracer/pkg/geometry"
)

func vertBoundsAt(leftX, rightX, height float64) (geometry.Line, geometry.Line) {
	left := geometry.NewLine(
		geometry.NewPoint2D(leftX, 0), geometry.NewPoint2D(leftX, height))
	right := geometry.NewLine(
		geometry.NewPoint2D(rightX, 0), geometry.NewPoint2D(rightX, height))
	return left, right
}

func TestIsInsideBounds(t *testing.T) {
	left, right := vertBoundsAt(10, 90, 100)

	if !isInsideBounds(geometry.NewPoint2D(50, 50), left, right) {
		t.Error("interior point reported outside")
	}
	if isInsideBounds(geometry.NewPoint2D(5, 50), left, right) {
		t.Error("point left of the left bound reported inside")
	}
	if isInsideBounds(geometry.NewPoint2D(95, 50), left, right) {
		t.Error("point right of the right bound reported inside")
	}
}

func TestFilterOutOfBoundsCurves_DropsOnlyFullyOutside(t *testing.T) {
	left, right := vertBoundsAt(10, 90, 100)

	inside := []geometry.Point2D{{X: 20, Y: 50}, {X: 80, Y: 50}}
	straddling := []geometry.Point2D{{X: 5, Y: 50}, {X: 50, Y: 50}}
	outside := []geometry.Point2D{{X: 2, Y: 50}, {X: 95, Y: 50}}

	kept := filterOutOfBoundsCurves([][]geometry.Point2D{inside, straddling, outside}, left, right)

	if len(kept) != 2 {
		t.Fatalf("kept %d curves, want 2", len(kept))
	}
	// A curve is dropped only when both endpoints are outside.
	if kept[0][0].X != 20 || kept[1][0].X != 5 {
		t.Errorf("wrong curves survived: %v", kept)
	}
}

func TestIsCurvatureConsistent_ShortCurves(t *testing.T) {
	if isCurvatureConsistent([]geometry.Point2D{{X: 1, Y: 1}}, 6) {
		t.Error("single point accepted")
	}
	if !isCurvatureConsistent([]geometry.Point2D{{X: 1, Y: 1}, {X: 10, Y: 1}}, 6) {
		t.Error("two-point curve rejected")
	}
}

func TestIsCurvatureConsistent_StraightAndGentle(t *testing.T) {
	straight := []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}, {X: 30, Y: 0}}
	if !isCurvatureConsistent(straight, 6) {
		t.Error("straight curve rejected")
	}

	gentle := []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0.5}, {X: 20, Y: 1.2}, {X: 30, Y: 2}}
	if !isCurvatureConsistent(gentle, 6) {
		t.Error("gently bending curve rejected")
	}
}

func TestIsCurvatureConsistent_OnlyPositiveBendsDisqualify(t *testing.T) {
	// The verdict is asymmetric: a sharp bend one way rejects the curve,
	// the same bend the other way does not.
	up := []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 8}}
	down := []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: -8}}

	if isCurvatureConsistent(up, 6) {
		t.Error("sharp positive bend accepted")
	}
	if !isCurvatureConsistent(down, 6) {
		t.Error("sharp negative bend rejected")
	}
}

func TestFilterEdgyCurves_DropsSharpBend(t *testing.T) {
	straight := []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}}
	zigzag := []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 8}, {X: 30, Y: 0}, {X: 40, Y: 8}}

	kept := filterEdgyCurves([][]geometry.Point2D{straight, zigzag}, 6)
	if len(kept) != 1 {
		t.Fatalf("kept %d curves, want 1", len(kept))
	}
	if kept[0][2].Y != 0 {
		t.Error("wrong curve survived the curvature filter")
	}
}
