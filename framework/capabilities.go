package framework

// Capabilities is a list of strings naming optional features of the service under test. A test
// that depends on such a feature calls ldtest.T.RequireCapability and is skipped if it is absent.
type Capabilities []string

// Has returns true if the specified string appears in the list.
func (cs Capabilities) Has(name string) bool {
	for _, c := range cs {
		if c == name {
			return true
		}
	}
	return false
}

// Missing returns every name from wanted that is not in the list, preserving the order of wanted.
func (cs Capabilities) Missing(wanted Capabilities) Capabilities {
	var ret Capabilities
	for _, w := range wanted {
		if !cs.Has(w) {
			ret = append(ret, w)
		}
	}
	return ret
}
