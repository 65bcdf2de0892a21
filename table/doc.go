// SPDX-License-Identifier: MIT

// Package table holds the observation data consumed by model assembly.
//
// A Table is a set of equally long, named columns of raw text cells. Cells are
// interpreted on demand: as categorical level labels (Strings) or as numbers
// (Floats). A fixed set of markers denotes a missing cell, see IsMissing.
//
// Tables are built from in-memory rows (New) or from any database/sql result
// set (FromRows); there is deliberately no file-format reader here.
package table
