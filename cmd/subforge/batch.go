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

	"gopkg.in/yaml.v3"
)

// batchJob describes one "convert this file from X to Y" unit of work read
// from the YAML job list, per SPEC_FULL.md's ambient configuration section.
type batchJob struct {
	Input       string `yaml:"input"`
	Output      string `yaml:"output"`
	From        string `yaml:"from"`
	To          string `yaml:"to"`
	Unsupported string `yaml:"unsupported,omitempty"` // drop | comment
	Karaoke     string `yaml:"karaoke,omitempty"`      // preserve | explode | strip
}

type batchFile struct {
	Jobs []batchJob `yaml:"jobs"`
}

func runBatch(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read batch file %s: %w", path, err)
	}

	var bf batchFile
	if err := yaml.Unmarshal(raw, &bf); err != nil {
		return fmt.Errorf("parse batch file %s: %w", path, err)
	}

	var failed int
	for i, job := range bf.Jobs {
		if err := runBatchJob(job); err != nil {
			fmt.Fprintf(os.Stderr, "job %d (%s -> %s): %v\n", i, job.Input, job.Output, err)
			failed++
			continue
		}
		fmt.Printf("job %d: %s -> %s\n", i, job.Input, job.Output)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(bf.Jobs))
	}
	return nil
}

func runBatchJob(job batchJob) error {
	raw, err := os.ReadFile(job.Input)
	if err != nil {
		return fmt.Errorf("read %s: %w", job.Input, err)
	}

	prevUnsupported, prevKaraoke := convertUnsupported, convertKaraoke
	if job.Unsupported != "" {
		convertUnsupported = job.Unsupported
	}
	if job.Karaoke != "" {
		convertKaraoke = job.Karaoke
	}
	defer func() { convertUnsupported, convertKaraoke = prevUnsupported, prevKaraoke }()

	out, err := convertOne(raw, job.From, job.To)
	if err != nil {
		return err
	}
	return writeOutput(job.Output, out)
}
