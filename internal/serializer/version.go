package serializer

import (
	"mime"
	"net/http"
	"strconv"
	"strings"
)

// LatestVersion is the newest API version fields can be tagged with.
const LatestVersion = "1.0"

// VersionProvider picks the serialization version for a request.
type VersionProvider interface {
	Version(r *http.Request) string
}

// AcceptHeaderVersion reads the version parameter of the Accept header
// ("application/json; version=1.0") and falls back to Default.
type AcceptHeaderVersion struct {
	Default string
}

func (p AcceptHeaderVersion) Version(r *http.Request) string {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		_, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if v := params["version"]; v != "" {
			return v
		}
	}
	if p.Default != "" {
		return p.Default
	}
	return LatestVersion
}

// sinceVisible reports whether a field introduced in since is part of version.
func sinceVisible(since, version string) bool {
	if since == "" || version == "" {
		return true
	}
	return compareVersions(version, since) >= 0
}

// compareVersions compares dotted numeric versions; missing parts count as 0
// and non numeric parts compare as 0.
func compareVersions(a, b string) int {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for len(as) < len(bs) {
		as = append(as, "0")
	}
	for len(bs) < len(as) {
		bs = append(bs, "0")
	}
	for i := range as {
		x, _ := strconv.Atoi(as[i])
		y, _ := strconv.Atoi(bs[i])
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}
