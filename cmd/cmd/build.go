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
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ostafen/lmprobe/internal/ingest"
	"github.com/ostafen/lmprobe/internal/logger"
)

// ModelFileExt is the default extension of built model files.
const ModelFileExt = ".binlm"

func DefineBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "build <counts-file>",
		Short:        "Build a model file from an n-gram counts file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunBuild,
	}

	cmd.Flags().StringP("output", "o", "", "path of the model file to write")
	cmd.Flags().Uint64("expected", 0, "expected number of n-gram entries (defaults to counting the input)")
	cmd.Flags().String("report", "", "write an XML build report to the specified file")
	cmd.Flags().Bool("no-log", false, "disable logging and progress output")
	cmd.Flags().String("log-level", "INFO", "minimum log level")

	return cmd
}

func RunBuild(cmd *cobra.Command, args []string) error {
	countsPath := args[0]
	return ingest.Build(countsPath, parseBuildOptions(cmd, countsPath))
}

func parseBuildOptions(cmd *cobra.Command, countsPath string) ingest.Options {
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = defaultModelPath(countsPath)
	}

	expected, _ := cmd.Flags().GetUint64("expected")
	reportFile, _ := cmd.Flags().GetString("report")
	noLog, _ := cmd.Flags().GetBool("no-log")
	logLevel, _ := cmd.Flags().GetString("log-level")

	return ingest.Options{
		Output:     output,
		ReportFile: reportFile,
		Expected:   expected,
		DisableLog: noLog,
		LogLevel:   logger.ParseLevel(logLevel),
	}
}

func defaultModelPath(countsPath string) string {
	return strings.TrimSuffix(countsPath, filepath.Ext(countsPath)) + ModelFileExt
}
