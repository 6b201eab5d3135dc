package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const lessonPrefix = "lesson-"

// LessonID returns the catalog ID of the nth lesson, counting from 1.
func LessonID(n int) string {
	return fmt.Sprintf("%s%03d", lessonPrefix, n)
}

// IsCourseLesson reports whether id names one of the RequiredLessons lessons
// of the course, lesson-001 through lesson-120.
func IsCourseLesson(id string) bool {
	num, ok := strings.CutPrefix(id, lessonPrefix)
	if !ok {
		return false
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 || n > RequiredLessons {
		return false
	}
	// Rejects "+01", "0001" and other spellings of the same number.
	return LessonID(n) == id
}
