// objtool is a CLI utility for inspecting OBJ meshes and their packed render buffers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"go.uber.org/zap"

	"github.com/Faultbox/objmesh/internal/assets"
	"github.com/Faultbox/objmesh/internal/config"
	"github.com/Faultbox/objmesh/internal/loader"
	"github.com/Faultbox/objmesh/internal/logger"
	"github.com/Faultbox/objmesh/pkg/math"
	"github.com/Faultbox/objmesh/pkg/mesh"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command, rest := args[0], args[1:]

	// These need neither config nor assets.
	switch command {
	case "help", "-h", "--help":
		printUsage()
		return
	case "normal":
		os.Exit(cmdNormal(rest))
	case "init-config":
		os.Exit(cmdInitConfig(rest))
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Sugar.Debugf("Config: %+v", cfg)

	var cache *assets.Cache
	if cfg.Assets.Cache {
		cache = assets.NewCache()
	}
	src := assets.NewManager(cache)
	defer src.Close()
	for _, root := range cfg.Assets.Roots {
		if err := src.AddDir(root); err != nil {
			logger.Error("skipping asset root", zap.String("root", root), zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	l := loader.New(src, cfg.Loader, logger.Named("loader"))

	var code int
	switch command {
	case "info":
		code = cmdInfo(ctx, l, rest)
	case "check":
		code = cmdCheck(ctx, l, rest)
	case "dump":
		code = cmdDump(ctx, l, cfg, rest)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		code = 1
	}

	if code != 0 {
		logger.Sync()
		os.Exit(code)
	}
}

func printUsage() {
	fmt.Println(`objtool - OBJ mesh buffer utility

Usage:
  objtool [flags] <command> [args]

Commands:
  info <file.obj>...                 Load meshes concurrently and show sizes and bounds
  check <file.obj>...                Load meshes concurrently and report failures
  dump <file.obj> [output_dir]       Write packed buffers as raw native-endian files
  normal x1 y1 z1 x2 y2 z2 x3 y3 z3  Print the surface normal of a triangle
  init-config [path]                 Write the default config file

Flags:
  -config <path>   Config file (default: ./objtool.yaml, then user config dir)
  -colors          Parse the colored dialect (c lines, p/t/n/c face fields)
  -workers <n>     Concurrent loads for check
  -root <dir>      Extra asset root searched before configured roots
  -out <dir>       Output directory for dump
  -log <file>      Also log to a rotated file
  -debug           Enable debug logging

Examples:
  objtool info models/cube.obj
  objtool -colors check models/*.obj
  objtool dump models/cube.obj ./buffers`)
}

func cmdInfo(ctx context.Context, l *loader.Loader, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool info <file.obj>...")
		return 1
	}

	meshes, err := l.LoadAll(ctx, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	for i, m := range meshes {
		fmt.Printf("Mesh:      %s\n", args[i])
		fmt.Printf("Corners:   %d\n", m.Count())
		fmt.Printf("Positions: %d bytes\n", m.Positions().Len())
		fmt.Printf("Normals:   %d bytes\n", m.Normals().Len())
		fmt.Printf("Indices:   %d bytes\n", m.Indices().Len())
		if m.HasColors() {
			fmt.Printf("Colors:    %d bytes\n", m.Colors().Len())
		}
		if min, max, ok := bounds(m); ok {
			fmt.Printf("Bounds:    (%g, %g, %g) - (%g, %g, %g)\n", min.X, min.Y, min.Z, max.X, max.Y, max.Z)
		}
		fmt.Println()
	}
	return 0
}

// bounds returns the axis-aligned bounding box of the mesh positions.
func bounds(m *mesh.Mesh) (min, max math.Vec3, ok bool) {
	pos, err := m.Positions().Float32s()
	if err != nil || len(pos) < 3 {
		return math.Vec3{}, math.Vec3{}, false
	}

	min = math.V3(pos)
	max = min
	for i := 3; i+3 <= len(pos); i += 3 {
		v := math.V3(pos[i:])
		min = min.Min(v)
		max = max.Max(v)
	}
	return min, max, true
}

func cmdCheck(ctx context.Context, l *loader.Loader, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool check <file.obj>...")
		return 1
	}

	failed := 0
	for _, r := range l.Check(ctx, args) {
		if r.Err != nil {
			fmt.Printf("FAIL %s: %v\n", r.Name, r.Err)
			failed++
			continue
		}
		fmt.Printf("ok   %s (%d corners)\n", r.Name, r.Mesh.Count())
	}

	fmt.Fprintf(os.Stderr, "\n(%d of %d meshes failed)\n", failed, len(args))
	if failed > 0 {
		return 1
	}
	return 0
}

func cmdDump(ctx context.Context, l *loader.Loader, cfg *config.Config, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool dump <file.obj> [output_dir]")
		return 1
	}

	outputDir := cfg.Output.Dir
	if len(args) > 1 {
		outputDir = args[1]
	}

	m, err := l.Load(ctx, args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	sink := &fileSink{dir: outputDir}
	if err := m.Submit(sink); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing buffers: %v\n", err)
		return 1
	}

	for _, f := range sink.written {
		fmt.Printf("Wrote: %s\n", f)
	}
	return 0
}

func cmdNormal(args []string) int {
	if len(args) != 9 {
		fmt.Fprintln(os.Stderr, "Usage: objtool normal x1 y1 z1 x2 y2 z2 x3 y3 z3")
		return 1
	}

	var v [9]float32
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: argument %d: %v\n", i+1, err)
			return 1
		}
		v[i] = float32(f)
	}

	n := math.SurfaceNormal(math.V3(v[0:]), math.V3(v[3:]), math.V3(v[6:]))
	u := n.Normalize()
	fmt.Printf("normal: %g %g %g\n", n.X, n.Y, n.Z)
	fmt.Printf("unit:   %g %g %g\n", u.X, u.Y, u.Z)
	return 0
}

func cmdInitConfig(args []string) int {
	path := initConfigPath(args)
	if err := config.Default().SaveTo(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
		return 1
	}

	fmt.Printf("Wrote config: %s\n", path)
	return 0
}

// initConfigPath returns the file init-config writes: the argument if given,
// otherwise the config file in the user config directory.
func initConfigPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return config.UserPath()
}
