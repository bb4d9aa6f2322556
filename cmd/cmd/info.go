// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ostafen/lmprobe/pkg/probemap"
	"github.com/ostafen/lmprobe/pkg/util/format"
)

func DefineInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "info <model-file>",
		Short:        "Print size and occupancy of a built model file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunInfo,
	}
}

func RunInfo(cmd *cobra.Command, args []string) error {
	path := args[0]

	fi, err := os.Stat(path)
	if err != nil {
		return err
	}

	m, err := probemap.New(path, 0)
	if err != nil {
		return err
	}
	defer m.Close()

	capacity := m.Capacity()
	occupied := m.Occupied()

	fmt.Printf("Model file: %s\n", path)
	fmt.Printf("File size:  %s\n", format.FormatBytes(fi.Size()))
	fmt.Printf("Slots:      %s\n", format.FormatCount(capacity))
	fmt.Printf("Occupied:   %s (%.1f%%)\n", format.FormatCount(occupied),
		float64(occupied)/float64(capacity)*100)
	return nil
}
