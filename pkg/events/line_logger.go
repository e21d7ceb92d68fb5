package events

import (
	"bytes"
	"sync"
)

// lineLogger is used as error output of the subscribe command and hands every
// complete line it receives to onLine.
type lineLogger struct {
	onLine func(line string)

	mutex sync.Mutex
	buf   bytes.Buffer
}

func (this *lineLogger) Write(p []byte) (int, error) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.buf.Write(p)
	for {
		i := bytes.IndexByte(this.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		this.onLine(string(bytes.TrimRight(this.buf.Next(i+1), "\r\n")))
	}
	if this.buf.Len() > MaxLineLength {
		this.onLine(this.buf.String())
		this.buf.Reset()
	}
	return len(p), nil
}

// Flush hands over a trailing line which was not terminated.
func (this *lineLogger) Flush() {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.buf.Len() > 0 {
		this.onLine(this.buf.String())
		this.buf.Reset()
	}
}
