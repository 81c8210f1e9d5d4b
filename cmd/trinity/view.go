package main

import (
	"flag"
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	trinity "github.com/DoctorDalek1963/trinity"
)

const (
	viewSize  = 720 // window is square
	pxPerUnit = 72  // ten units across
	gridUnits = 8   // grid lines drawn per half-axis
)

// cmdView evaluates an expression and opens a window showing its effect on
// the 2D plane: the background grid, the image of that grid under the
// matrix, and the transformed basis vectors. A vector2 result is drawn as a
// single arrow instead.
func cmdView(args []string) int {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	defs := fs.String("defs", "", "script evaluated before the expression, one definition per line")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s view [-defs <file>] <expr>\n", appName)
		return 2
	}
	expr := fs.Arg(0)

	sess := trinity.NewSession()
	if *defs != "" {
		if ret := loadDefs(sess, *defs); ret != 0 {
			return ret
		}
	}

	v, err := sess.EvalSource(expr)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}

	g := &viewerGame{}
	switch v.Tag {
	case trinity.TagMat2:
		g.mat = v.Mat2
		g.hasMat = true
	case trinity.TagVec2:
		g.vec = v.Vec2
		g.hasVec = true
	case trinity.TagMat3, trinity.TagVec3:
		fmt.Fprintln(os.Stderr, red(fmt.Sprintf(
			"%s view shows the 2D plane; downgrade the %s with ? first", appName, v.Tag)))
		return 1
	default:
		fmt.Fprintln(os.Stderr, red(fmt.Sprintf(
			"cannot visualise a %s; give a matrix2 or vector2 expression", v.Tag)))
		return 1
	}

	ebiten.SetWindowTitle(appName + ": " + expr)
	ebiten.SetWindowSize(viewSize, viewSize)
	if err := ebiten.RunGame(g); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	return 0
}

// loadDefs evaluates a definitions file against the session, same line
// discipline as cmdRun.
func loadDefs(sess *trinity.Session, path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return 1
	}
	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, err := sess.EvalSource(line); err != nil {
			fmt.Fprintf(os.Stderr, "%s:%d:\n%s\n", path, i+1, red(err.Error()))
			return 1
		}
	}
	return 0
}

var (
	colGrid   = color.RGBA{0x3a, 0x3a, 0x3a, 0xff}
	colAxis   = color.RGBA{0x80, 0x80, 0x80, 0xff}
	colImage  = color.RGBA{0x2e, 0x6f, 0xb8, 0xff}
	colBasisX = color.RGBA{0xd0, 0x45, 0x45, 0xff}
	colBasisY = color.RGBA{0x45, 0xb0, 0x55, 0xff}
	colVector = color.RGBA{0xd8, 0xa0, 0x30, 0xff}
)

type viewerGame struct {
	mat    [2][2]float64
	vec    [2]float64
	hasMat bool
	hasVec bool
}

func (g *viewerGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	return nil
}

func (g *viewerGame) Draw(screen *ebiten.Image) {
	drawGrid(screen, [2][2]float64{{1, 0}, {0, 1}}, colGrid, colAxis, 1)
	if g.hasMat {
		drawGrid(screen, g.mat, colImage, colImage, 1)
		drawArrow(screen, g.mat[0][0], g.mat[1][0], colBasisX)
		drawArrow(screen, g.mat[0][1], g.mat[1][1], colBasisY)
	}
	if g.hasVec {
		drawArrow(screen, g.vec[0], g.vec[1], colVector)
	}
}

func (g *viewerGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return viewSize, viewSize
}

// toScreen maps plane coordinates to pixels: origin at the centre, y up.
func toScreen(x, y float64) (float32, float32) {
	return float32(viewSize/2 + x*pxPerUnit), float32(viewSize/2 - y*pxPerUnit)
}

func strokePlane(dst *ebiten.Image, x0, y0, x1, y1 float64, width float32, c color.Color) {
	sx0, sy0 := toScreen(x0, y0)
	sx1, sy1 := toScreen(x1, y1)
	vector.StrokeLine(dst, sx0, sy0, sx1, sy1, width, c, true)
}

// drawGrid draws the image of the integer grid under m. The identity matrix
// gives the background grid; the axes through the origin use axisCol.
func drawGrid(dst *ebiten.Image, m [2][2]float64, lineCol, axisCol color.Color, width float32) {
	ext := float64(gridUnits)
	for i := -gridUnits; i <= gridUnits; i++ {
		t := float64(i)
		c := lineCol
		if i == 0 {
			c = axisCol
		}
		// vertical line x = t, then horizontal line y = t, both mapped by m
		strokePlane(dst,
			m[0][0]*t+m[0][1]*-ext, m[1][0]*t+m[1][1]*-ext,
			m[0][0]*t+m[0][1]*ext, m[1][0]*t+m[1][1]*ext,
			width, c)
		strokePlane(dst,
			m[0][0]*-ext+m[0][1]*t, m[1][0]*-ext+m[1][1]*t,
			m[0][0]*ext+m[0][1]*t, m[1][0]*ext+m[1][1]*t,
			width, c)
	}
}

// drawArrow draws a vector from the origin with a simple two-stroke head.
func drawArrow(dst *ebiten.Image, x, y float64, c color.Color) {
	strokePlane(dst, 0, 0, x, y, 3, c)

	// Arrow head: two short strokes angled back from the tip.
	len2 := x*x + y*y
	if len2 == 0 {
		return
	}
	const head = 0.18
	norm := math.Sqrt(len2)
	ux, uy := x/norm, y/norm
	px, py := -uy, ux
	strokePlane(dst, x, y, x-head*(ux-0.6*px), y-head*(uy-0.6*py), 3, c)
	strokePlane(dst, x, y, x-head*(ux+0.6*px), y-head*(uy+0.6*py), 3, c)
}
