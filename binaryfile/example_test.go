// File: binaryfile/example_test.go
package binaryfile_test

import (
	"bytes"
	"fmt"

	"github.com/katalvlaran/usgflow/binaryfile"
	"github.com/katalvlaran/usgflow/datafile"
)

////////////////////////////////////////////////////////////////////////////////
// Heads
////////////////////////////////////////////////////////////////////////////////

// ExampleHeadFile_GetData writes one layer of heads and reads it back with
// the precision detected from the file.
func ExampleHeadFile_GetData() {
	var buf bytes.Buffer
	w := binaryfile.NewWriter(&buf, binaryfile.WithPrecision(datafile.Single))
	e := datafile.Entry{
		Key: datafile.Key{Kstp: 1, Kper: 1}, Pertim: 10, Totim: 10,
		Text: "HEAD", Ncol: 2, Nrow: 2, Ilay: 1,
	}
	_ = w.WriteHead(e, []float64{10, 9.5, 9, 8.5})

	hf, err := binaryfile.NewHeadFile(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		fmt.Println(err)
		return
	}
	a, _ := hf.GetData(datafile.Key{Kstp: 1, Kper: 1})
	fmt.Println(hf.Precision(), a.Text, a.Totim, a.At(0, 1, 0))
	// Output: single HEAD 10 9
}

////////////////////////////////////////////////////////////////////////////////
// Budgets
////////////////////////////////////////////////////////////////////////////////

// ExampleBudgetFile_Reverse negates the flows of a one-step budget.
func ExampleBudgetFile_Reverse() {
	var buf bytes.Buffer
	w := binaryfile.NewWriter(&buf)
	e := datafile.Entry{
		Key: datafile.Key{Kstp: 1, Kper: 1}, Delt: 5, Pertim: 5, Totim: 5,
		Text: "WELLS", Ncol: 4, Nrow: 1, Nlay: 1,
	}
	_ = w.WriteBudget(e, &binaryfile.ListPayload{Nodes: []int{3}, Q: []float64{-2.5}})

	bf, _ := binaryfile.NewBudgetFile(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	var rev bytes.Buffer
	_ = bf.Reverse(&rev)

	back, _ := binaryfile.NewBudgetFile(bytes.NewReader(rev.Bytes()), int64(rev.Len()))
	recs, _ := back.Records("WELLS")
	fmt.Println(recs[0].Totim, recs[0].Payload.CellFlows())
	// Output: 5 [{2 2.5}]
}
