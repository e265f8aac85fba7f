package formats

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"testing"
)

const triangleOBJ = `# single triangle
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
`

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line     string
		expected Directive
		fields   int
	}{
		{"v 1 2 3", DirectivePosition, 3},
		{"vt 0.5 0.5", DirectiveTexture, 2},
		{"vn 0 0 1", DirectiveNormal, 3},
		{"c 1 0 0 1", DirectiveColor, 4},
		{"f 1//1 2//1 3//1", DirectiveFace, 3},
		{"s off", DirectiveSmoothingGroup, 1},
		{"usemtl stone", DirectiveMaterialRef, 1},
		{"mtllib scene.mtl", DirectiveMaterialLib, 1},
		{"# comment", DirectiveUnknown, 1},
		{"o cube", DirectiveUnknown, 1},
		{"vp 1 2", DirectiveUnknown, 2},
		{"  v\t1 2 3", DirectivePosition, 3},
		{"", DirectiveUnknown, 0},
		{"   ", DirectiveUnknown, 0},
	}

	for _, tc := range tests {
		d, fields := ClassifyLine(tc.line)
		if d != tc.expected {
			t.Errorf("ClassifyLine(%q) = %v, expected %v", tc.line, d, tc.expected)
		}
		if len(fields) != tc.fields {
			t.Errorf("ClassifyLine(%q) returned %d fields, expected %d", tc.line, len(fields), tc.fields)
		}
	}
}

func TestDirective_String(t *testing.T) {
	tests := []struct {
		d        Directive
		expected string
	}{
		{DirectivePosition, "v"},
		{DirectiveTexture, "vt"},
		{DirectiveNormal, "vn"},
		{DirectiveColor, "c"},
		{DirectiveFace, "f"},
		{DirectiveSmoothingGroup, "s"},
		{DirectiveMaterialRef, "usemtl"},
		{DirectiveMaterialLib, "mtllib"},
		{DirectiveUnknown, "unknown"},
	}

	for _, tc := range tests {
		if tc.d.String() != tc.expected {
			t.Errorf("%d.String() = %q, expected %q", tc.d, tc.d.String(), tc.expected)
		}
	}
}

func TestParseOBJ_Triangle(t *testing.T) {
	obj, err := ParseOBJ(strings.NewReader(triangleOBJ), OBJOptions{})
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	counts := obj.Counts()
	if counts.Positions != 3 {
		t.Errorf("expected 3 positions, got %d", counts.Positions)
	}
	if counts.Normals != 1 {
		t.Errorf("expected 1 normal, got %d", counts.Normals)
	}
	if counts.Faces != 1 || counts.Corners != 3 {
		t.Errorf("expected 1 face with 3 corners, got %d faces, %d corners", counts.Faces, counts.Corners)
	}

	face := obj.Faces[0]
	if face.Line != 6 {
		t.Errorf("expected face on line 6, got %d", face.Line)
	}
	for i, c := range face.Corners {
		if c.Position != i {
			t.Errorf("corner %d: expected position %d, got %d", i, i, c.Position)
		}
		if c.Normal != 0 {
			t.Errorf("corner %d: expected normal 0, got %d", i, c.Normal)
		}
		if c.TexCoord != -1 || c.Color != -1 {
			t.Errorf("corner %d: expected absent texture/color, got %d/%d", i, c.TexCoord, c.Color)
		}
	}
}

func TestParseOBJ_PoolValues(t *testing.T) {
	input := "v 1.5 -2 3e2 1.0\nvt 0.25 0.75\nvn 0 -1 0\n"
	obj, err := ParseOBJ(strings.NewReader(input), OBJOptions{})
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	// trailing w component is dropped
	wantPos := []float32{1.5, -2, 300}
	if len(obj.Positions) != len(wantPos) {
		t.Fatalf("expected %d position components, got %d", len(wantPos), len(obj.Positions))
	}
	for i, v := range wantPos {
		if obj.Positions[i] != v {
			t.Errorf("position[%d] = %f, expected %f", i, obj.Positions[i], v)
		}
	}
	if len(obj.TexCoords) != 2 || obj.TexCoords[0] != 0.25 || obj.TexCoords[1] != 0.75 {
		t.Errorf("unexpected texture pool %v", obj.TexCoords)
	}
	if len(obj.Normals) != 3 || obj.Normals[1] != -1 {
		t.Errorf("unexpected normal pool %v", obj.Normals)
	}
}

func TestParseOBJ_TextureSlot(t *testing.T) {
	input := "v 0 0 0\nvt 0 0\nvn 0 0 1\nf 1/1/1 1/1/1 1/1/1\n"
	obj, err := ParseOBJ(strings.NewReader(input), OBJOptions{})
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if obj.Faces[0].Corners[0].TexCoord != 0 {
		t.Errorf("expected texture index 0, got %d", obj.Faces[0].Corners[0].TexCoord)
	}
}

func TestParseOBJ_IgnoredDirectives(t *testing.T) {
	input := strings.Join([]string{
		"mtllib scene.mtl",
		"o thing",
		"g group",
		"usemtl stone",
		"s 1",
		"c 1 0 0 1", // ignored without color support
		"v 0 0 0",
		"x",  // short line
		"",   // empty line
		"\t", // short whitespace line
		"vn 0 1 0",
	}, "\n")

	obj, err := ParseOBJ(strings.NewReader(input), OBJOptions{})
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if len(obj.Colors) != 0 {
		t.Errorf("expected color lines to be ignored, got %v", obj.Colors)
	}
	if len(obj.Positions) != 3 || len(obj.Normals) != 3 {
		t.Errorf("expected one position and one normal, got %d/%d components", len(obj.Positions), len(obj.Normals))
	}
}

func TestParseOBJ_Colored(t *testing.T) {
	input := triangleOBJ + "c 1 0 0 1\nc 0 1 0 0.5\nf 1//1/2 2//1/1 3//1/2\n"
	input = strings.Replace(input, "f 1//1 2//1 3//1\n", "", 1)

	obj, err := ParseOBJ(strings.NewReader(input), OBJOptions{Colors: true})
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if !obj.Colored {
		t.Error("expected Colored to be set")
	}
	if got := obj.Counts().Colors; got != 2 {
		t.Errorf("expected 2 colors, got %d", got)
	}
	want := []int{1, 0, 1}
	for i, c := range obj.Faces[0].Corners {
		if c.Color != want[i] {
			t.Errorf("corner %d: expected color %d, got %d", i, want[i], c.Color)
		}
	}
}

// minIndex has no 0-based form that fits an int.
var minIndex = strconv.Itoa(math.MinInt)

func TestParseOBJ_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		opts   OBJOptions
		line   int
		field  int
		reason string
	}{
		{"bad float", "v 0 0 0\nv 1 x 0\n", OBJOptions{}, 2, 3, "x"},
		{"too few values", "vn 0 1\n", OBJOptions{}, 1, 4, "0 1"},
		{"bad texture", "vt a 0\n", OBJOptions{}, 1, 2, "a"},
		{"bad face index", "f 1//1 b//1 3//1\n", OBJOptions{}, 1, 3, "b//1"},
		{"missing normal slot", "f 1 2 3\n", OBJOptions{}, 1, 2, "1"},
		{"empty normal slot", "f 1/1/ 2/1/1 3/1/1\n", OBJOptions{}, 1, 2, "1/1/"},
		{"missing color slot", "f 1//1 2//1 3//1\n", OBJOptions{Colors: true}, 1, 2, "1//1"},
		{"bad color value", "c 1 0 0 z\n", OBJOptions{Colors: true}, 1, 5, "z"},
		{"bad texture slot", "f 1/q/1 2//1 3//1\n", OBJOptions{}, 1, 2, "1/q/1"},
		{"index below int range", "f 1//1 " + minIndex + "//1 3//1\n", OBJOptions{}, 1, 3, minIndex + "//1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tt.input), tt.opts)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Line != tt.line {
				t.Errorf("expected line %d, got %d", tt.line, pe.Line)
			}
			if pe.Field != tt.field {
				t.Errorf("expected field %d, got %d", tt.field, pe.Field)
			}
			if pe.Text != tt.reason {
				t.Errorf("expected text %q, got %q", tt.reason, pe.Text)
			}
		})
	}
}

type failingReader struct {
	data string
	err  error
	done bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, r.err
	}
	r.done = true
	return copy(p, r.data), nil
}

func TestParseOBJ_StreamError(t *testing.T) {
	cause := errors.New("asset stream closed")
	_, err := ParseOBJ(&failingReader{data: "v 0 0 0\n", err: cause}, OBJOptions{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected underlying error to be preserved, got %v", err)
	}
	if !errors.Is(err, ErrStream) {
		t.Errorf("expected ErrStream, got %v", err)
	}
	var se *StreamError
	if !errors.As(err, &se) || se.Line != 1 {
		t.Errorf("expected StreamError after line 1, got %v", err)
	}
}

func TestParseOBJ_Empty(t *testing.T) {
	obj, err := ParseOBJ(strings.NewReader(""), OBJOptions{})
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if c := obj.Counts(); c != (Counts{}) {
		t.Errorf("expected zero counts, got %+v", c)
	}
}

func TestParseOBJ_LongFaceLine(t *testing.T) {
	var b strings.Builder
	b.WriteString("v 0 0 0\nvn 0 0 1\nf")
	const corners = 20000 // ~140 KiB, past bufio's default token size
	for i := 0; i < corners; i++ {
		b.WriteString(" 1//1")
	}
	b.WriteString("\n")

	obj, err := ParseOBJ(strings.NewReader(b.String()), OBJOptions{})
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if got := obj.Counts().Corners; got != corners {
		t.Errorf("expected %d corners, got %d", corners, got)
	}
}

func TestParseOBJFile_Missing(t *testing.T) {
	_, err := ParseOBJFile("/nonexistent/mesh.obj", OBJOptions{})
	if err == nil {
		t.Error("expected error for missing file")
	}
}

var _ io.Reader = (*failingReader)(nil)
