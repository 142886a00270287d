// Package loader reads newline-delimited JSON files into record tables.
//
// Every line of the input must hold exactly one JSON object. A byte budget
// limits how much of the file is read; lines are never split, so the budget
// only ever drops whole trailing lines. Decoding preserves the order in which
// fields first appear and keeps integers exact.
package loader
