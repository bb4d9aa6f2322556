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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ostafen/lmprobe/pkg/probemap"
)

func DefineLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "lookup <model-file> <token-id>...",
		Short:        "Look up one n-gram in a built model file",
		Args:         cobra.MinimumNArgs(2),
		SilenceUsage: true,
		RunE:         RunLookup,
	}
}

func RunLookup(cmd *cobra.Command, args []string) error {
	key, err := parseTokenIDs(args[1:])
	if err != nil {
		return err
	}

	m, err := probemap.New(args[0], 0)
	if err != nil {
		return err
	}
	defer m.Close()

	// A missing key is a result, not an error.
	node, ok := m.Find(key)
	if !ok {
		fmt.Println("not found")
		return nil
	}

	fmt.Printf("prob=%g backoff=%g\n", node.Prob, node.Backoff)
	return nil
}

func parseTokenIDs(args []string) (probemap.TokenList, error) {
	key := make(probemap.TokenList, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid token id %q: %w", arg, err)
		}
		key = append(key, probemap.TokenID(id))
	}
	return key, nil
}
