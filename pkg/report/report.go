package report

import "encoding/xml"

// BuildReport summarizes one model build: where the n-grams came from, how
// the table was sized, and what ended up inside it.
type BuildReport struct {
	XMLName xml.Name `xml:"build_report"`

	Creator  Creator      `xml:"creator"`
	Source   Source       `xml:"source"`
	Table    Table        `xml:"table"`
	Orders   []OrderCount `xml:"ngrams>order"`
	Duration Duration     `xml:"duration"`
}

// Creator identifies the program that produced the report.
type Creator struct {
	Package   string `xml:"package"`
	Version   string `xml:"version"`
	BuildTime string `xml:"build_time"`
}

// Source describes the counts file the model was built from.
type Source struct {
	CountsFile string `xml:"counts_file"`
	Entries    uint64 `xml:"entries"`
}

// Table describes the model file that was written.
type Table struct {
	ModelFile  string  `xml:"model_file"`
	Capacity   uint64  `xml:"capacity"`
	Occupied   uint64  `xml:"occupied"`
	LoadFactor float64 `xml:"load_factor"`
	FileSize   int64   `xml:"file_size"`
}

// OrderCount is the number of n-grams loaded for one n-gram order.
type OrderCount struct {
	N     int    `xml:"n,attr"`
	Count uint64 `xml:",chardata"`
}

// Duration is the wall-clock build time in milliseconds.
type Duration struct {
	Millis int64 `xml:"ms"`
}
