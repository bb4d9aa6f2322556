package report_test

import (
	"bytes"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/lmprobe/pkg/report"
)

func TestWrite(t *testing.T) {
	r := report.BuildReport{
		Creator: report.Creator{Package: "lmprobe", Version: "dev"},
		Source:  report.Source{CountsFile: "counts.txt", Entries: 4},
		Table: report.Table{
			ModelFile:  "counts.binlm",
			Capacity:   6,
			Occupied:   4,
			LoadFactor: 4.0 / 6.0,
			FileSize:   96,
		},
		Orders: []report.OrderCount{
			{N: 1, Count: 2},
			{N: 2, Count: 2},
		},
		Duration: report.Duration{Millis: 12},
	}

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, r))

	out := buf.String()
	require.Contains(t, out, xml.Header)
	require.Contains(t, out, "<model_file>counts.binlm</model_file>")
	require.Contains(t, out, `<order n="1">2</order>`)

	// The document must round-trip through the standard decoder.
	var decoded report.BuildReport
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, r.Source, decoded.Source)
	require.Equal(t, r.Table, decoded.Table)
	require.Equal(t, r.Orders, decoded.Orders)
}
