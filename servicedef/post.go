package servicedef

import (
	"fmt"
	"math"
	"strconv"

	o "github.com/launchdarkly/posts-api-contract-tests/framework/opt"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Post is the posts collection's resource. ID is assigned by the service and is zero in a
// creation request, in which case it is omitted from the JSON.
type Post struct {
	ID     int
	Title  string
	Body   string
	UserID o.Maybe[int]
}

func (p Post) String() string {
	return fmt.Sprintf("Post(id=%d, title=%q)", p.ID, p.Title)
}

// WriteToJSONWriter encodes the post as a JSON object.
func (p Post) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Maybe("id", p.ID != 0).Int(p.ID)
	obj.Name("title").String(p.Title)
	obj.Name("body").String(p.Body)
	obj.Maybe("userId", p.UserID.IsDefined()).Int(p.UserID.Value())
	obj.End()
}

// ReadFromJSONReader decodes a post, ignoring unknown properties. Some services represent ids
// as numeric strings, so those are accepted too.
func (p *Post) ReadFromJSONReader(r *jreader.Reader) {
	var ret Post
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "id":
			ret.ID = readIntOrNumericString(r)
		case "title":
			ret.Title, _ = r.StringOrNull()
		case "body":
			ret.Body, _ = r.StringOrNull()
		case "userId":
			if n, nonNull := r.IntOrNull(); nonNull {
				ret.UserID = o.Some(n)
			}
		default:
			_ = r.SkipValue()
		}
	}
	if r.Error() == nil {
		*p = ret
	}
}

func (p Post) MarshalJSON() ([]byte, error) {
	w := jwriter.NewWriter()
	p.WriteToJSONWriter(&w)
	return w.Bytes(), w.Error()
}

func (p *Post) UnmarshalJSON(data []byte) error {
	r := jreader.NewReader(data)
	p.ReadFromJSONReader(&r)
	return r.Error()
}

func readIntOrNumericString(r *jreader.Reader) int {
	v := r.Any()
	switch v.Kind {
	case jreader.NumberValue:
		if v.Number != math.Trunc(v.Number) || v.Number < math.MinInt32 || v.Number > math.MaxInt32 {
			r.AddError(fmt.Errorf("id %v is not an integer", v.Number))
			return 0
		}
		return int(v.Number)
	case jreader.StringValue:
		n, err := strconv.Atoi(v.String)
		if err != nil {
			r.AddError(fmt.Errorf("id %q is not numeric", v.String))
		}
		return n
	case jreader.NullValue:
		return 0
	default:
		r.AddError(fmt.Errorf("id must be a number, got JSON %v", v.Kind))
		return 0
	}
}

// PostList is the response to GET on the posts collection.
type PostList []Post

// IDs returns the id of each post in order.
func (l PostList) IDs() []int {
	ret := make([]int, 0, len(l))
	for _, p := range l {
		ret = append(ret, p.ID)
	}
	return ret
}

func (l PostList) MarshalJSON() ([]byte, error) {
	w := jwriter.NewWriter()
	arr := w.Array()
	for _, p := range l {
		p.WriteToJSONWriter(&w)
	}
	arr.End()
	return w.Bytes(), w.Error()
}

func (l *PostList) UnmarshalJSON(data []byte) error {
	r := jreader.NewReader(data)
	ret := PostList{}
	for arr := r.Array(); arr.Next(); {
		var p Post
		p.ReadFromJSONReader(&r)
		ret = append(ret, p)
	}
	if err := r.Error(); err != nil {
		return err
	}
	*l = ret
	return nil
}
