// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package base defines fundamental types shared by the block decoding
// packages: key comparison, the ordered iterator interface, corruption errors
// and logging.
package base
