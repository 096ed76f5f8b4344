// Package runtime hands a generated Emonic project off to a Python
// interpreter. The interpreter runs <project>/app.py with inherited stdio;
// its exit code is reported back to the caller.
package runtime
