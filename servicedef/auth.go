package servicedef

import (
	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Credentials is the body of a register or login request.
type Credentials struct {
	Email    string
	Password string
}

func (c Credentials) MarshalJSON() ([]byte, error) {
	w := jwriter.NewWriter()
	obj := w.Object()
	obj.Name("email").String(c.Email)
	obj.Name("password").String(c.Password)
	obj.End()
	return w.Bytes(), w.Error()
}

func (c *Credentials) UnmarshalJSON(data []byte) error {
	r := jreader.NewReader(data)
	var ret Credentials
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "email":
			ret.Email, _ = r.StringOrNull()
		case "password":
			ret.Password, _ = r.StringOrNull()
		default:
			_ = r.SkipValue()
		}
	}
	if err := r.Error(); err != nil {
		return err
	}
	*c = ret
	return nil
}

// AuthUser is the user object returned alongside an access token.
type AuthUser struct {
	ID    int
	Email string
}

// AuthResponse is the response to a successful register or login request. AccessToken is an
// opaque bearer string.
type AuthResponse struct {
	AccessToken string
	User        AuthUser
}

func (a AuthResponse) MarshalJSON() ([]byte, error) {
	w := jwriter.NewWriter()
	obj := w.Object()
	obj.Name("accessToken").String(a.AccessToken)
	user := obj.Name("user").Object()
	user.Name("id").Int(a.User.ID)
	user.Name("email").String(a.User.Email)
	user.End()
	obj.End()
	return w.Bytes(), w.Error()
}

func (a *AuthResponse) UnmarshalJSON(data []byte) error {
	r := jreader.NewReader(data)
	var ret AuthResponse
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "accessToken":
			ret.AccessToken, _ = r.StringOrNull()
		case "user":
			for userObj := r.ObjectOrNull(); userObj.Next(); {
				switch string(userObj.Name()) {
				case "id":
					ret.User.ID = readIntOrNumericString(&r)
				case "email":
					ret.User.Email, _ = r.StringOrNull()
				default:
					_ = r.SkipValue()
				}
			}
		default:
			_ = r.SkipValue()
		}
	}
	if err := r.Error(); err != nil {
		return err
	}
	*a = ret
	return nil
}
