package testutils

import (
	"fmt"
	"regexp"
)

// Test documents carry their settings as comments:
//
//	# option:token: secret
//	# option:variables: {"id":"p1"}
//	query { ... }

func FindOptionString(t TestingT, optionName, source string) string {
	t.Helper()

	ss := findOption(t, optionName, source)
	if len(ss) != 2 {
		t.Logf("option %s value is not found", optionName)
		return ""
	}

	return ss[1]
}

func FindOptionBool(t TestingT, optionName, source string) bool {
	t.Helper()

	ss := findOption(t, optionName, source)
	if len(ss) != 2 {
		t.Logf("option %s value is not found", optionName)
		return false
	}

	return ss[1] == "true"
}

func findOption(t TestingT, optionName, source string) []string {
	t.Helper()

	pattern := fmt.Sprintf("(?m)^# option:%s:[ \\t]*(.+?)[ \\t]*$", regexp.QuoteMeta(optionName))
	re, err := regexp.Compile(pattern)
	if err != nil {
		t.Fatal(err)
	}

	return re.FindStringSubmatch(source)
}
