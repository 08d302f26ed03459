package smoke

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mergington/activities/pkg/logger"
)

// generateStudents returns n unique student emails.
func generateStudents(ctx context.Context, n int) []string {
	students := make([]string, n)
	for i := range students {
		id := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		students[i] = "smoke-" + id + "@" + studentEmailDomain
	}
	logger.Get().Info(ctx, "generated students", logger.Int("count", n))
	return students
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
