package flowshop

import (
	"strconv"
	"strings"
)

// Format renders a job order as space-separated job indices.
func Format(perm []int) string {
	var b strings.Builder
	for i, job := range perm {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(job))
	}
	return b.String()
}
