// Package instance keeps a second copy of the program from starting.
package instance

import "strings"

// Count returns how many of exeNames refer to the same executable as self.
// Names are compared by base name without regard to case.
func Count(exeNames []string, self string) int {
	self = baseName(self)
	n := 0
	for _, name := range exeNames {
		if strings.EqualFold(baseName(name), self) {
			n++
		}
	}
	return n
}

// baseName accepts both separators so Windows paths work on any host.
func baseName(p string) string {
	return p[strings.LastIndexAny(p, `\/`)+1:]
}
