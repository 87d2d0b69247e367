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
	"github.com/wiedymi/subforge-sub002/pkg/convert"
)

var (
	convertFrom        string
	convertTo          string
	convertOut         string
	convertUnsupported string
	convertKaraoke     string
	convertBatch       string
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a subtitle file from one format to another",
	Long: `Convert reads a single file with --from/--to, or a YAML job list with
--batch (see batch.go for the schema). Unsupported styling/effects are
dropped or turned into a visible comment per --unsupported, matching
pkg/convert's UnsupportedPolicy.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertFrom, "from", "", "source format")
	convertCmd.Flags().StringVar(&convertTo, "to", "", "target format")
	convertCmd.Flags().StringVar(&convertOut, "out", "", "output path (defaults to stdout)")
	convertCmd.Flags().StringVar(&convertUnsupported, "unsupported", "drop", "drop | comment")
	convertCmd.Flags().StringVar(&convertKaraoke, "karaoke", "preserve", "preserve | explode | strip")
	convertCmd.Flags().StringVar(&convertBatch, "batch", "", "YAML batch job file (see docs); overrides positional/from/to")
}

func runConvert(cmd *cobra.Command, args []string) error {
	if convertBatch != "" {
		return runBatch(convertBatch)
	}
	if len(args) != 1 {
		return fmt.Errorf("convert requires exactly one file argument, or --batch")
	}
	if convertFrom == "" || convertTo == "" {
		return fmt.Errorf("--from and --to are required without --batch")
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	out, err := convertOne(raw, convertFrom, convertTo)
	if err != nil {
		return err
	}
	return writeOutput(convertOut, out)
}

func convertOne(raw []byte, from, to string) ([]byte, error) {
	entry, err := lookupFormat(from)
	if err != nil {
		return nil, err
	}
	res := entry.parseResult(raw)
	if !res.OK {
		return nil, fmt.Errorf("parse %s: %d error(s)", from, len(res.Errors))
	}

	unsupported := convert.UnsupportedDrop
	if convertUnsupported == "comment" {
		unsupported = convert.UnsupportedComment
	}
	karaoke := convert.KaraokePreserve
	switch convertKaraoke {
	case "explode":
		karaoke = convert.KaraokeExplode
	case "strip":
		karaoke = convert.KaraokeStrip
	}

	out, err := subforge.Convert(res.Document, subforge.ConvertOptions{
		To:          subforge.FormatID(to),
		Unsupported: unsupported,
		Karaoke:     karaoke,
		ReportLoss:  true,
	})
	if err != nil {
		return nil, err
	}

	for _, lost := range out.LostFeatures {
		fmt.Fprintf(os.Stderr, "lost: event %d: %s (%s)\n", lost.EventIndex, lost.Feature, lost.Description)
	}

	switch v := out.Output.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case subforge.VobSubOutput:
		return nil, fmt.Errorf("vobsub output is an idx/sub pair; use a dedicated flow, not convert")
	default:
		return nil, fmt.Errorf("unexpected convert output type %T", v)
	}
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
