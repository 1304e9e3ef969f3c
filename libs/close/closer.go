// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package close

import (
	"errors"
)

// Closer runs shutdown functions in the reverse order they were added in.
type Closer struct {
	closeFns []func() error
}

func (c *Closer) Add(closeFn func() error) {
	c.closeFns = append(c.closeFns, closeFn)
}

// AddFn registers a shutdown function that cannot fail.
func (c *Closer) AddFn(closeFn func()) {
	c.Add(func() error {
		closeFn()
		return nil
	})
}

// CloseAll calls every registered function, even when some of them fail,
// and returns all the errors met.
func (c *Closer) CloseAll() error {
	var errs []error
	for i := len(c.closeFns) - 1; i >= 0; i-- {
		if err := c.closeFns[i](); err != nil {
			errs = append(errs, err)
		}
	}

	c.closeFns = []func() error{}
	return errors.Join(errs...)
}

func NewCloser() *Closer {
	return &Closer{
		closeFns: []func() error{},
	}
}
