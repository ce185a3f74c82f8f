package internal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/bytes"
	"github.com/sirupsen/logrus"
)

// readFile returns at most limit bytes of the file at path, all of it
// when limit is negative
func readFile(path string, limit int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var r io.Reader = f
	if limit >= 0 {
		r = io.LimitReader(f, limit)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(b), "�"), nil
}

func defineFs(t builtinTable) {
	t.define("fs#readstr", 1, 1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		path, err := argString("fs#readstr", arguments, 0)
		if err != nil {
			return nil, err
		}
		content, err := readFile(path, -1)
		if err != nil {
			return nil, err
		}
		exec.unit.log.WithFields(logrus.Fields{
			"path": path,
			"read": bytes.Format(int64(len(content))),
		}).Debug("file read")
		return hashString(content), nil
	})

	t.define("fs#readstr_until", 2, 2, func(exec *exec, arguments []interface{}) (interface{}, error) {
		path, err := argString("fs#readstr_until", arguments, 0)
		if err != nil {
			return nil, err
		}
		limit, err := argInt("fs#readstr_until", arguments, 1)
		if err != nil {
			return nil, err
		}
		if limit < 0 {
			return nil, fmt.Errorf("%w: fs#readstr_until length %d", errInvalidRange, limit)
		}
		content, err := readFile(path, int64(limit))
		if err != nil {
			return nil, err
		}
		return hashString(content), nil
	})
}
