package tokens

func ConfirmEmailClaimsFromToken(tokenStr string, confirmSecret []byte) (*ConfirmEmailClaims, error) {
	var claims ConfirmEmailClaims
	if err := Verify(tokenStr, &claims, confirmSecret); err != nil {
		return nil, err
	}
	return &claims, nil
}
