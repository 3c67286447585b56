package tokens

func RefreshClaimsFromToken(tokenStr string, refreshSecret []byte) (*RefreshClaims, error) {
	var claims RefreshClaims
	if err := Verify(tokenStr, &claims, refreshSecret); err != nil {
		return nil, err
	}
	return &claims, nil
}
