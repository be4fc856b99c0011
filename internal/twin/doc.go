// Package twin implements the Digital Twin cost projector.
//
// A projection starts from a Baseline derived from history: the trailing
// difficulty (weighted/raw) of the filtered orders, the hourly productivity
// of the capacity log, the fixed finishing and machine headcounts, the most
// recent labor cost lines and the averaged overheads of the support sectors.
// Each projected month then combines the baseline with user supplied
// workforce parameters into production, payroll and cost per unit.
//
// All money and ratios are shopspring/decimal values so that documented
// ratios such as 1.2/1.5 = 0.8 come out exact.
package twin
