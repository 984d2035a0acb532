package powershell

import (
	"encoding/base64"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"

	"github.com/redbadger/webdeploy/model"
)

// EncodePassword encodes the password as base64 of its UTF-16LE bytes, the form
// the scripts decode with [Text.Encoding]::Unicode. The encoded value never needs
// quoting on a command line.
func EncodePassword(p model.Password) (string, error) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	b, err := enc.Bytes([]byte(p.Reveal()))
	if err != nil {
		return "", errors.Wrap(err, "encoding password")
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
