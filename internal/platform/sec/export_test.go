// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "time"

// SetClock replaces the token clock.
func (service *TokenService) SetClock(now func() time.Time) { service.now = now }

// SignNonAdmin issues a correctly signed token with admin=false.
func (service *TokenService) SignNonAdmin() (string, error) { return service.sign(false) }
