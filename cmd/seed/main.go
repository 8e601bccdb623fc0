package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// Seeds a running warbler instance with fake users, warbles and follow
// edges, driven entirely through the public HTTP surface. Expects a
// fresh database so user ids come out sequential.
var (
	baseURL  = flag.String("base", "http://localhost:8080", "warbler base URL")
	numUsers = flag.Int("users", 20, "users to create")
	warbles  = flag.Int("warbles", 5, "warbles per user")
	follows  = flag.Int("follows", 8, "follow edges per user")
)

const seedPassword = "password"

func main() {
	flag.Parse()
	gofakeit.Seed(time.Now().UnixNano())

	clients := make([]*http.Client, 0, *numUsers)
	for i := 0; i < *numUsers; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i)
		client := signupUser(username)
		if client == nil {
			log.Fatalf("could not sign up %s, aborting", username)
		}
		clients = append(clients, client)

		for j := 0; j < *warbles; j++ {
			postWarble(client, gofakeit.Sentence(gofakeit.Number(3, 12)))
		}
	}

	for i, client := range clients {
		for j := 0; j < *follows; j++ {
			target := gofakeit.Number(1, *numUsers)
			if target == i+1 {
				continue // no self-follows
			}
			followUser(client, target)
		}
	}

	log.Printf("seeded %d users, ~%d warbles, ~%d follows",
		*numUsers, *numUsers**warbles, *numUsers**follows)
}

// signupUser registers through the signup form. The returned client
// carries the session cookie the server set on success.
func signupUser(username string) *http.Client {
	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	resp, err := client.PostForm(*baseURL+"/signup", url.Values{
		"username":  {username},
		"email":     {gofakeit.Email()},
		"password":  {seedPassword},
		"image_url": {gofakeit.ImageURL(200, 200)},
	})
	if err != nil {
		log.Println("error in signupUser:", err)
		return nil
	}
	defer resp.Body.Close()
	log.Printf("signupUser: %s status: %s", username, resp.Status)
	return client
}

func postWarble(client *http.Client, text string) {
	if len(text) > 140 {
		text = text[:140]
	}
	resp, err := client.PostForm(*baseURL+"/messages/new", url.Values{
		"text": {text},
	})
	if err != nil {
		log.Println("error in postWarble:", err)
		return
	}
	defer resp.Body.Close()
}

func followUser(client *http.Client, targetID int) {
	resp, err := client.PostForm(fmt.Sprintf("%s/users/follow/%d", *baseURL, targetID), url.Values{})
	if err != nil {
		log.Println("error in followUser:", err)
		return
	}
	defer resp.Body.Close()
}
