package config

import "fmt"

func errorf(typeMethod, format string, a ...interface{}) error {
	return fmt.Errorf("github.com/indexd/indextree/config."+typeMethod+": "+format, a...)
}
