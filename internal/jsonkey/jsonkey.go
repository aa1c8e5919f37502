// Package jsonkey looks up object members by literal key. Report and
// document keys may contain dots, spaces or '+', which gjson paths would
// interpret.
package jsonkey

import "github.com/tidwall/gjson"

// Get returns the member of obj named key, or a non-existent result when obj
// is not an object or has no such member.
func Get(obj gjson.Result, key string) gjson.Result {
	var out gjson.Result
	if !obj.IsObject() {
		return out
	}
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			out = v
			return false
		}
		return true
	})
	return out
}
