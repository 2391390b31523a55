package synth

import "io"

// soundReader feeds a rendered buffer to an oto player, optionally forever
type soundReader struct {
	data []byte
	pos  int
	loop bool
}

func (r *soundReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	if r.pos >= len(r.data) {
		if !r.loop {
			return 0, io.EOF
		}
		r.pos = 0
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
