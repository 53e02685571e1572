// Package clipboard wraps the system clipboard. Writes may fail (missing
// display server, denied permission); callers surface that as a
// notification and change no state.
package clipboard

import cb "github.com/atotto/clipboard"

func Read() (string, error) {
	return cb.ReadAll()
}

func Copy(text string) error {
	return cb.WriteAll(text)
}
