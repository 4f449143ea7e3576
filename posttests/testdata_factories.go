package posttests

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/launchdarkly/posts-api-contract-tests/servicedef"

	"github.com/google/uuid"
)

const (
	randomTitleWords = 2
	randomBodyWords  = 5

	nonExistentIDMin = 10000000
	nonExistentIDMax = 99999999
)

var loremWords = strings.Fields(`
	lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod tempor incididunt ut
	labore et dolore magna aliqua enim ad minim veniam quis nostrud exercitation ullamco laboris
	nisi aliquip ex ea commodo consequat duis aute irure in reprehenderit voluptate velit esse
	cillum fugiat nulla pariatur excepteur sint occaecat cupidatat non proident sunt culpa qui
	officia deserunt mollit anim id est laborum perspiciatis unde omnis iste natus error
	accusantium doloremque laudantium totam rem aperiam eaque ipsa quae ab illo inventore
	veritatis quasi architecto beatae vitae dicta explicabo nemo ipsam quia voluptas aspernatur
	aut odit fugit consequuntur magni dolores eos ratione sequi nesciunt neque porro quisquam
	dolorem adipisci numquam eius modi tempora incidunt magnam quaerat`)

// RandomWords returns n words of placeholder text separated by spaces.
func RandomWords(n int) string {
	words := make([]string, 0, n)
	for i := 0; i < n; i++ {
		words = append(words, loremWords[rand.Intn(len(loremWords))]) //nolint:gosec
	}
	return strings.Join(words, " ")
}

// RandomPost returns a post with a two-word title and a five-word body. It has no id.
func RandomPost() servicedef.Post {
	return servicedef.Post{
		Title: RandomWords(randomTitleWords),
		Body:  RandomWords(randomBodyWords),
	}
}

// RandomPostWithDifferentTitle returns a random post whose title is not the same as that of p.
func RandomPostWithDifferentTitle(p servicedef.Post) servicedef.Post {
	for {
		ret := RandomPost()
		if ret.Title != p.Title {
			return ret
		}
	}
}

// RandomCredentials returns credentials whose email address is unique to this run.
func RandomCredentials() servicedef.Credentials {
	return servicedef.Credentials{
		Email:    fmt.Sprintf("contract-tests-%s@example.com", uuid.NewString()),
		Password: uuid.NewString(),
	}
}

// RandomNonExistentID returns a random eight-digit id. Services under test are expected to have
// far fewer posts than that, so no post will have it.
func RandomNonExistentID() int {
	return nonExistentIDMin + rand.Intn(nonExistentIDMax-nonExistentIDMin+1) //nolint:gosec
}
