package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/urfave/cli.v2"

	"risculator/config"
	"risculator/cpu"
	"risculator/loader"
	"risculator/mem"
)

// Exit codes. 0 means the program reached its termination sentinel.
const (
	exitLoad     = 1 // load failure, config failure, self-test failure
	exitDecode   = 2 // unknown instruction or bad PC
	exitWatchdog = 3 // cycle bound exceeded
)

var logo = `
 ___ ___ ___  ___      _      _
| _ \_ _/ __|/ __|_  _| |__ _| |_ ___ _ _
|   /| |\__ \ (_| || | / _` + "`" + ` |  _/ _ \ '_|
|_|_\___|___/\___\_,_|_\__,_|\__\___/_|
`

var banner = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Render(logo)

func main() {
	app := &cli.App{
		Name:    "risculator",
		Usage:   "RV32I emulator driven by an objdump disassembly listing",
		Version: "v0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "program",
				Aliases: []string{"p"},
				Usage:   "disassembly listing to run",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML config file",
			},
			&cli.IntFlag{
				Name:  "ram",
				Usage: "RAM size in cells (overrides config)",
			},
			&cli.IntFlag{
				Name:  "max-cycles",
				Usage: "watchdog cycle bound (overrides config)",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "step through the program in an interactive TUI",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "suppress per-instruction decode logs",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitLoad)
	}
}

func run(c *cli.Context) error {
	if c.String("program") == "" {
		cli.ShowAppHelp(c)
		return cli.Exit("", exitLoad)
	}

	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cli.Exit(err.Error(), exitLoad)
		}
	}
	if c.IsSet("ram") {
		cfg.RAMSize = c.Int("ram")
	}
	if c.IsSet("max-cycles") {
		cfg.MaxCycles = c.Int("max-cycles")
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), exitLoad)
	}

	fmt.Println(banner)

	ram := mem.New(cfg.RAMSize)
	proc := cpu.New(ram)
	proc.MISA = cfg.MISA

	log.SetPrefix("[risculator] ")
	log.Println("boot sequence starting")
	log.Println("loading configurations")
	for _, line := range strings.Split(proc.Info(), "\n") {
		log.Println(line)
	}

	log.Println("register test")
	if err := proc.Regs.SelfTest(); err != nil {
		return cli.Exit(err.Error(), exitLoad)
	}
	log.Println("ram test")
	if err := ram.SelfTest(); err != nil {
		return cli.Exit(err.Error(), exitLoad)
	}

	n, err := loader.LoadFile(c.String("program"), ram)
	if err != nil {
		return cli.Exit(err.Error(), exitLoad)
	}
	log.Printf("loaded %d instruction words", n)

	if c.Bool("debug") {
		if err := proc.Debug(); err != nil {
			return exitFor(err)
		}
		return nil
	}

	var logw io.Writer
	if !c.Bool("quiet") {
		logw = os.Stdout
	}
	cycles, err := proc.Run(cfg.MaxCycles, logw)
	if err != nil {
		return exitFor(err)
	}
	log.Printf("halted after %d cycles", cycles)
	fmt.Print(proc.Regs.DumpDirty())
	fmt.Print(ram.DumpDirty())
	return nil
}

// exitFor maps an interpreter fault to its exit category.
func exitFor(err error) error {
	switch {
	case errors.Is(err, cpu.ErrWatchdog):
		return cli.Exit(err.Error(), exitWatchdog)
	case errors.Is(err, cpu.ErrDecode), errors.Is(err, cpu.ErrBadPC):
		return cli.Exit(err.Error(), exitDecode)
	}
	return cli.Exit(err.Error(), exitLoad)
}
