package message

type Method string

const (
	MethodGet          Method = "GET"
	MethodPost         Method = "POST"
	MethodUnrecognized Method = ""
)

// parseMethod never fails: unknown methods collapse to MethodUnrecognized.
func parseMethod(data string) Method {
	switch m := Method(data); m {
	case MethodGet, MethodPost:
		return m
	}
	return MethodUnrecognized
}

func (m Method) String() string {
	if m == MethodUnrecognized {
		return "UNRECOGNIZED"
	}
	return string(m)
}

type Version string

const (
	Version11           Version = "HTTP/1.1"
	Version20           Version = "HTTP/2.0"
	VersionUnrecognized Version = ""
)

func parseVersion(data string) Version {
	switch v := Version(data); v {
	case Version11, Version20:
		return v
	}
	return VersionUnrecognized
}

func (v Version) String() string {
	if v == VersionUnrecognized {
		return "UNRECOGNIZED"
	}
	return string(v)
}
