// Package viz renders recorded and live simulation runs in the
// terminal: asciigraph trajectory plots and a bubbletea live view of
// the falling box.
package viz
