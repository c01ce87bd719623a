package classroom

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/pkg/errors"
)

// join links are capability tokens: whoever holds one may enroll as a
// Student. They must be unguessable, so they come from crypto/rand and
// never from a sequence.
const joinLinkBytes = 32

func makeJoinLink() (string, error) {
	buf := make([]byte, joinLinkBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "generating join link")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
