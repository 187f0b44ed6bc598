package envvar

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

func String(n string, args ...string) (string, bool) {
	defaultValue := ""
	if len(args) > 0 {
		defaultValue = args[0]
	}

	str, ok := os.LookupEnv(n)
	if !ok {
		return defaultValue, false
	}

	return str, true
}

func SetBool(n string, v *bool) bool {
	b, ok := Bool(n)
	if ok {
		*v = b
	}

	return ok
}

func Bool(n string, args ...bool) (bool, bool) {
	defaultValue := false
	if len(args) > 0 {
		defaultValue = args[0]
	}

	str, ok := os.LookupEnv(n)
	if !ok {
		return defaultValue, false
	}

	b, err := strconv.ParseBool(str)
	if err != nil {
		logrus.WithError(err).Errorf("can not parse env var %q as bool, incorrect format", str)
		return defaultValue, false
	}

	return b, true
}
