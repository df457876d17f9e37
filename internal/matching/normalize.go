package matching

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// foldText prepares a categorical value for case-insensitive equality.
// A Caser keeps state, so a fresh one is taken per call.
func foldText(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func sameText(req *string, item string) bool {
	return req != nil && foldText(*req) == foldText(item)
}

// sameNumber compares parsed values, so "240" and "240.0" are equal.
func sameNumber(req *float64, item float64) bool {
	return req != nil && *req == item
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fmtOptFloat(v *float64) string {
	if v == nil {
		return "not specified"
	}
	return fmtFloat(*v)
}

func fmtOptText(v *string) string {
	if v == nil {
		return "not specified"
	}
	return *v
}

func mismatch(req, item string) string {
	return "requirement: " + req + ", catalog: " + item
}
