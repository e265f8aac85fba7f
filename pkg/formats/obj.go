package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrParse  = errors.New("malformed OBJ directive")
	ErrStream = errors.New("reading OBJ stream")
)

// maxOBJLine bounds a single line; long polygon faces need more than bufio's 64 KiB default.
const maxOBJLine = 1 << 20

// Component counts per pool entry.
const (
	PositionStride = 3
	TexCoordStride = 2
	NormalStride   = 3
	ColorStride    = 4
)

// Directive identifies the kind of an OBJ line.
type Directive uint8

// Directive kinds.
const (
	DirectiveUnknown Directive = iota
	DirectivePosition
	DirectiveTexture
	DirectiveNormal
	DirectiveColor
	DirectiveFace
	DirectiveSmoothingGroup
	DirectiveMaterialRef
	DirectiveMaterialLib
)

// String returns the directive keyword.
func (d Directive) String() string {
	switch d {
	case DirectivePosition:
		return "v"
	case DirectiveTexture:
		return "vt"
	case DirectiveNormal:
		return "vn"
	case DirectiveColor:
		return "c"
	case DirectiveFace:
		return "f"
	case DirectiveSmoothingGroup:
		return "s"
	case DirectiveMaterialRef:
		return "usemtl"
	case DirectiveMaterialLib:
		return "mtllib"
	default:
		return "unknown"
	}
}

// ClassifyLine splits a line into whitespace-separated tokens and classifies it by its
// head token. The returned fields exclude the head.
func ClassifyLine(line string) (Directive, []string) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return DirectiveUnknown, nil
	}

	// Whole-token matching keeps vt/vn from ever being read as v.
	var d Directive
	switch tokens[0] {
	case "vt":
		d = DirectiveTexture
	case "vn":
		d = DirectiveNormal
	case "v":
		d = DirectivePosition
	case "c":
		d = DirectiveColor
	case "s":
		d = DirectiveSmoothingGroup
	case "f":
		d = DirectiveFace
	case "usemtl":
		d = DirectiveMaterialRef
	case "mtllib":
		d = DirectiveMaterialLib
	default:
		d = DirectiveUnknown
	}
	return d, tokens[1:]
}

// ParseError reports a malformed directive or number.
type ParseError struct {
	Line      int       // 1-based line number
	Field     int       // 1-based token position on the line, 0 for the whole line
	Directive Directive // directive being parsed
	Text      string    // offending text
	Err       error     // underlying cause, may be nil
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("line %d: %s", e.Line, e.Directive)
	if e.Field > 0 {
		msg += fmt.Sprintf(" field %d", e.Field)
	}
	msg += fmt.Sprintf(": %q", e.Text)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Err }

// Is reports ErrParse as a match.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// StreamError reports a failure of the underlying reader.
type StreamError struct {
	Line int // last line read successfully
	Err  error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%s after line %d: %v", ErrStream, e.Line, e.Err)
}

// Unwrap returns the reader's error unchanged.
func (e *StreamError) Unwrap() error { return e.Err }

// Is reports ErrStream as a match.
func (e *StreamError) Is(target error) bool { return target == ErrStream }

// Corner is one vertex reference of a face. Indices are 0-based; -1 marks an absent
// optional slot.
type Corner struct {
	Position int
	TexCoord int
	Normal   int
	Color    int
}

// Face is a face directive in file order.
type Face struct {
	Line    int
	Corners []Corner
}

// OBJ holds the attribute pools and faces of a parsed OBJ stream.
type OBJ struct {
	Positions []float32 // stride 3
	TexCoords []float32 // stride 2, never consumed downstream
	Normals   []float32 // stride 3
	Colors    []float32 // stride 4, colored variant only
	Faces     []Face

	// Colored is set when the stream was parsed with color support.
	Colored bool
}

// Counts summarizes an OBJ.
type Counts struct {
	Positions int
	TexCoords int
	Normals   int
	Colors    int
	Faces     int
	Corners   int
}

// Counts returns the number of entries in each pool and the total corner count.
func (o *OBJ) Counts() Counts {
	c := Counts{
		Positions: len(o.Positions) / PositionStride,
		TexCoords: len(o.TexCoords) / TexCoordStride,
		Normals:   len(o.Normals) / NormalStride,
		Colors:    len(o.Colors) / ColorStride,
		Faces:     len(o.Faces),
	}
	for _, f := range o.Faces {
		c.Corners += len(f.Corners)
	}
	return c
}

// OBJOptions controls dialect features.
type OBJOptions struct {
	// Colors enables the colored variant: "c r g b a" lines and a fourth face slot.
	Colors bool
}

// ParseOBJ parses an OBJ stream.
func ParseOBJ(r io.Reader, opts OBJOptions) (*OBJ, error) {
	obj := &OBJ{Colored: opts.Colors}

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxOBJLine)

	lineNum := 0
	for s.Scan() {
		lineNum++
		line := s.Text()
		if len(line) < 2 {
			continue
		}
		if err := obj.parseLine(lineNum, line, opts); err != nil {
			return nil, err
		}
	}
	if err := s.Err(); err != nil {
		return nil, &StreamError{Line: lineNum, Err: err}
	}

	return obj, nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string, opts OBJOptions) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ file: %w", err)
	}
	defer f.Close()
	return ParseOBJ(f, opts)
}

func (o *OBJ) parseLine(lineNum int, line string, opts OBJOptions) error {
	d, fields := ClassifyLine(line)
	switch d {
	case DirectivePosition:
		return appendFloats(&o.Positions, lineNum, d, fields, PositionStride)
	case DirectiveTexture:
		return appendFloats(&o.TexCoords, lineNum, d, fields, TexCoordStride)
	case DirectiveNormal:
		return appendFloats(&o.Normals, lineNum, d, fields, NormalStride)
	case DirectiveColor:
		if !opts.Colors {
			return nil
		}
		return appendFloats(&o.Colors, lineNum, d, fields, ColorStride)
	case DirectiveFace:
		face, err := parseFace(lineNum, fields, opts.Colors)
		if err != nil {
			return err
		}
		o.Faces = append(o.Faces, face)
	}
	// s, usemtl, mtllib and unknown lines carry nothing we keep.
	return nil
}

// appendFloats parses the first n fields as float32 values. Extra fields are ignored.
func appendFloats(pool *[]float32, lineNum int, d Directive, fields []string, n int) error {
	if len(fields) < n {
		return &ParseError{
			Line:      lineNum,
			Field:     len(fields) + 2,
			Directive: d,
			Text:      strings.Join(fields, " "),
			Err:       fmt.Errorf("expected %d values, got %d", n, len(fields)),
		}
	}
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return &ParseError{Line: lineNum, Field: i + 2, Directive: d, Text: fields[i], Err: numErr(err)}
		}
		*pool = append(*pool, float32(v))
	}
	return nil
}

// Face slot positions within a "p/t/n/c" field.
const (
	slotPosition = iota
	slotTexCoord
	slotNormal
	slotColor
)

func parseFace(lineNum int, fields []string, colors bool) (Face, error) {
	face := Face{Line: lineNum, Corners: make([]Corner, 0, len(fields))}
	for i, field := range fields {
		c, err := parseCorner(field, colors)
		if err != nil {
			return Face{}, &ParseError{Line: lineNum, Field: i + 2, Directive: DirectiveFace, Text: field, Err: err}
		}
		face.Corners = append(face.Corners, c)
	}
	return face, nil
}

func parseCorner(field string, colors bool) (Corner, error) {
	slots := strings.Split(field, "/")
	c := Corner{TexCoord: -1, Color: -1}

	var err error
	if c.Position, err = requiredSlot(slots, slotPosition, "position"); err != nil {
		return Corner{}, err
	}
	if len(slots) > slotTexCoord && slots[slotTexCoord] != "" {
		if c.TexCoord, err = parseIndex(slots[slotTexCoord]); err != nil {
			return Corner{}, fmt.Errorf("texture index: %w", err)
		}
	}
	if c.Normal, err = requiredSlot(slots, slotNormal, "normal"); err != nil {
		return Corner{}, err
	}
	if colors {
		if c.Color, err = requiredSlot(slots, slotColor, "color"); err != nil {
			return Corner{}, err
		}
	}
	return c, nil
}

func requiredSlot(slots []string, slot int, name string) (int, error) {
	if len(slots) <= slot || slots[slot] == "" {
		return 0, fmt.Errorf("missing %s index", name)
	}
	idx, err := parseIndex(slots[slot])
	if err != nil {
		return 0, fmt.Errorf("%s index: %w", name, err)
	}
	return idx, nil
}

// parseIndex converts a 1-based source index to a 0-based pool index.
// Non-positive indices survive as negative pool indices and fail resolution.
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, numErr(err)
	}
	if n == math.MinInt {
		return 0, strconv.ErrRange
	}
	return n - 1, nil
}

// numErr strips strconv's repetition of the input from its error.
func numErr(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}
