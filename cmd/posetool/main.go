// posetool is a CLI utility for inspecting skeletons and posing rigs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-pose/internal/config"
	"github.com/Faultbox/midgard-pose/internal/logger"
	"github.com/Faultbox/midgard-pose/internal/posescript"
	"github.com/Faultbox/midgard-pose/internal/rig"
	"github.com/Faultbox/midgard-pose/internal/skeleton"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "validate", "check":
		err = cmdValidate(args)
	case "joints", "j":
		err = cmdJoints(args)
	case "dump":
		err = cmdDump(args)
	case "simulate", "sim":
		err = cmdSimulate(args)
	case "run":
		err = cmdRun(args)
	case "watch":
		err = cmdWatch(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`posetool - skeleton and rig utility

Usage:
  posetool <command> [options]

Commands:
  validate [skeleton.yaml]           Check a skeleton definition
  joints [skeleton.yaml]             Show the joint chosen for every bone
  dump [-o file] [skeleton.yaml]     Write a skeleton definition as YAML
  simulate [options]                 Pose, step and save a rig snapshot
  run <script.tengo> [options]       Run a pose script and print the angles
  watch <skeleton.yaml>              Revalidate a skeleton on every change

Without a skeleton file the built-in humanoid is used.

Examples:
  posetool validate robot.yaml
  posetool dump -o humanoid.yaml
  posetool simulate -script wave.tengo -seconds 2 -save pose.yaml
  posetool run wave.tengo -skeleton robot.yaml`)
}

// common holds the options shared by commands that build a rig.
type common struct {
	config   *string
	skeleton *string
	debug    *bool
}

func addCommon(fs *flag.FlagSet) common {
	return common{
		config:   fs.String("config", "", "Path to config file"),
		skeleton: fs.String("skeleton", "", "Skeleton definition file"),
		debug:    fs.Bool("debug", false, "Enable debug logging"),
	}
}

// setup loads configuration, starts logging and builds the rig.
func (c common) setup() (*config.Config, *rig.Controller, error) {
	cfg, err := config.LoadFrom(*c.config)
	if err != nil {
		return nil, nil, err
	}
	if *c.debug {
		cfg.Logging.Level = "debug"
	}
	if *c.skeleton != "" {
		cfg.Skeleton.Path = *c.skeleton
	}

	// Console logging stays quiet unless asked for; output is for humans.
	level := cfg.Logging.Level
	if !*c.debug {
		level = "warn"
	}
	if err := logger.Init(level, cfg.Logging.LogFile); err != nil {
		return nil, nil, err
	}

	skel, err := skeleton.Load(cfg.Skeleton.Path)
	if err != nil {
		return nil, nil, err
	}
	ctrl, err := rig.New(skel, cfg.Rig(), logger.Named("rig"))
	if err != nil {
		return nil, nil, err
	}
	return cfg, ctrl, nil
}

func loadDefinition(args []string) (skeleton.Definition, error) {
	if len(args) == 0 {
		return skeleton.HumanoidDefinition(), nil
	}
	return skeleton.LoadDefinition(args[0])
}

func cmdValidate(args []string) error {
	def, err := loadDefinition(args)
	if err != nil {
		return err
	}

	if err := def.Validate(); err != nil {
		problems := skeleton.Problems(err)
		fmt.Printf("%s: %d problem(s)\n", def.Name, len(problems))
		for _, p := range problems {
			fmt.Printf("  - %v\n", p)
		}
		return skeleton.ErrInvalid
	}

	skel, err := skeleton.Build(def)
	if err != nil {
		return err
	}
	fmt.Printf("%s: OK (%d bones, %d defined)\n", def.Name, skel.Len(), len(def.Bones))
	return nil
}

func cmdJoints(args []string) error {
	def, err := loadDefinition(args)
	if err != nil {
		return err
	}
	skel, err := skeleton.Build(def)
	if err != nil {
		return err
	}

	fmt.Printf("%-20s %-10s %-8s %-26s %s\n", "BONE", "JOINT", "GIMBAL", "LOW", "HIGH")
	for _, b := range skel.Bones() {
		if b.IsRoot() {
			fmt.Printf("%-20s %-10s %-8s %-26s %s\n", b.Name, "(root)", "-",
				formatDegrees(b.LowLimit), formatDegrees(b.HighLimit))
			continue
		}

		kind := rig.ClassifyJoint(b.LowLimit, b.HighLimit)
		fix := "-"
		if kind == rig.JointGeneric {
			f, err := rig.GimbalFixFor(b.LowLimit, b.HighLimit)
			if err != nil {
				fix = "error"
			} else {
				fix = f.String()
			}
		}
		fmt.Printf("%-20s %-10s %-8s %-26s %s\n", b.Name, kind, fix,
			formatDegrees(b.LowLimit), formatDegrees(b.HighLimit))
	}
	return nil
}

func formatDegrees(v [3]float64) string {
	return rig.AnglesOf(v).String()
}

func cmdDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	output := fs.String("o", "", "Output file (default: stdout)")
	fs.Parse(args)

	def, err := loadDefinition(fs.Args())
	if err != nil {
		return err
	}

	if *output != "" {
		if err := skeleton.SaveDefinition(*output, def); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d bones)\n", *output, len(def.Bones))
		return nil
	}

	data, err := skeleton.Marshal(def)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func cmdSimulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	opts := addCommon(fs)
	script := fs.String("script", "", "Pose script to run first")
	load := fs.String("load", "", "Snapshot to restore before the script")
	seconds := fs.Float64("seconds", 1, "Simulated time to step after the script")
	save := fs.String("save", "", "Write the final snapshot to this file")
	fs.Parse(args)

	_, ctrl, err := opts.setup()
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if *load != "" {
		data, err := os.ReadFile(*load)
		if err != nil {
			return err
		}
		snap, err := rig.ParseSnapshot(data)
		if err != nil {
			return err
		}
		ctrl.Restore(snap)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *script != "" {
		if err := posescript.New(ctrl, logger.Named("script")).RunFile(ctx, *script); err != nil {
			return err
		}
	}

	steps := 0
	dt := ctrl.Clock().FixedDelta()
	for t := 0.0; t < *seconds && ctx.Err() == nil; t += dt {
		steps += ctrl.Tick(dt)
	}
	logger.Info("simulated", zap.Int("steps", steps), zap.Float64("seconds", ctrl.Clock().Elapsed()))

	printAngles(ctrl)

	if *save == "" {
		return nil
	}
	data, err := ctrl.Snapshot().Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(*save, data, 0644); err != nil {
		return err
	}
	fmt.Printf("Saved snapshot to %s\n", *save)
	return nil
}

func cmdRun(args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: posetool run <script.tengo> [options]")
		os.Exit(1)
	}

	fs := flag.NewFlagSet("run", flag.ExitOnError)
	opts := addCommon(fs)
	fs.Parse(args[1:])

	_, ctrl, err := opts.setup()
	if err != nil {
		return err
	}
	defer ctrl.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := posescript.New(ctrl, logger.Named("script")).RunFile(ctx, args[0]); err != nil {
		return err
	}
	printAngles(ctrl)
	return nil
}

func printAngles(ctrl *rig.Controller) {
	for _, b := range ctrl.Bones() {
		fmt.Printf("  %-20s %-22s %s\n", b.Name, ctrl.GetAngles(b), ctrl.BoneBlocking(b))
	}
}

func cmdWatch(args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: posetool watch <skeleton.yaml>")
		os.Exit(1)
	}
	path := args[0]

	if err := logger.Init("info", ""); err != nil {
		return err
	}

	w, err := skeleton.WatchFile(path)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	check := func() {
		if err := cmdValidate([]string{path}); err != nil && err != skeleton.ErrInvalid {
			logger.Warn("cannot read skeleton", zap.Error(err))
		}
	}

	fmt.Printf("Watching %s (Ctrl+C to stop)\n", path)
	check()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-w.Events:
			if !ok {
				return nil
			}
			check()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}
