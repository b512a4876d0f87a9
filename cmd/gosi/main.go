package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gosi/cpu"
	"gosi/machine"
	"gosi/video"
)

const traceFile = "instruction_dump_last1000.txt"

func main() {
	rootCmd := &cobra.Command{
		Use:   "gosi",
		Short: "Space Invaders on an emulated Intel 8080",
	}

	var rom string
	rootCmd.PersistentFlags().StringVar(&rom, "rom", "invaders", "path to the ROM image")

	var scale int
	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Run the game in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := machine.New()
			if err := m.LoadROM(rom); err != nil {
				return err
			}
			if err := video.Run(m, scale); err != nil {
				return err
			}
			// clean shutdown: dump the last 1000 instructions
			f, err := os.Create(traceFile)
			if err != nil {
				return err
			}
			defer f.Close()
			return m.DumpTrace(f)
		},
	}
	playCmd.Flags().IntVar(&scale, "scale", 2, "window scale factor")

	debugCmd := &cobra.Command{
		Use:   "debug",
		Short: "Start the interactive debugger",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := machine.New()
			if err := m.LoadROM(rom); err != nil {
				return err
			}
			return m.Cpu.Debug()
		},
	}

	var out string
	disasmCmd := &cobra.Command{
		Use:   "disasm",
		Short: "Write a disassembly listing of the ROM",
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(rom)
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			for pc := 0; pc < len(image); {
				var next [2]byte
				copy(next[:], image[pc+1:min(pc+3, len(image))])
				size, mnemonic := cpu.Disassemble(image[pc], next)
				if _, err := fmt.Fprintf(f, "PC %04X: %s\n", pc, mnemonic); err != nil {
					return err
				}
				pc += size // skip bytes consumed as operands
			}
			return nil
		},
	}
	disasmCmd.Flags().StringVarP(&out, "out", "o", "invaders.8080", "listing output path")

	rootCmd.AddCommand(playCmd, debugCmd, disasmCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
