// Copyright 2020-2021 The Subforge Authors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	subforge "github.com/wiedymi/subforge-sub002"
)

var probeCmd = &cobra.Command{
	Use:   "probe <file>",
	Short: "Guess a file's subtitle format (best-effort hint, not a negotiation step)",
	Args:  cobra.ExactArgs(1),
	RunE:  runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	id, confidence := subforge.Probe(raw)
	if id == "" {
		fmt.Printf("%s: unrecognized\n", args[0])
		return nil
	}
	fmt.Printf("%s: %s (confidence %.2f)\n", args[0], id, confidence)
	return nil
}
