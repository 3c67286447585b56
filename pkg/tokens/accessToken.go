package tokens

func AccessClaimsFromToken(tokenStr string, accessSecret []byte) (*AccessClaims, error) {
	var claims AccessClaims
	if err := Verify(tokenStr, &claims, accessSecret); err != nil {
		return nil, err
	}
	return &claims, nil
}
