// Package corpus reads the tabular corpus description.
//
// Two formats are supported: Excel workbooks (first sheet, via excelize)
// and comma-separated files. Both map header cells to canonical column
// names, accepting the "texts." prefix left by flattened exports, so
// "texts.id" and "id" both name the id column.
package corpus
