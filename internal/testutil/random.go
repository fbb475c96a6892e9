package testutil

import (
	"math/rand"
	"strconv"
)

var leftNames = []string{
	"brave", "calm", "eager", "gentle", "kind", "proud", "quiet", "sharp", "wise", "zealous",
	"bold", "clever", "curious", "daring", "focused", "graceful", "humble", "jolly", "lively", "merry",
}

var rightNames = []string{
	"builder", "creator", "dreamer", "explorer", "friend", "helper", "leader", "maker", "seeker", "thinker",
	"artisan", "pathfinder", "innovator", "navigator", "observer", "planner", "tinkerer", "visionary",
}

var environments = []string{"dev", "test", "uat", "prod"}

// RandProjectName returns a random name that is valid as a platform namespace
// name (lowercase alphanumerics and dashes).
func RandProjectName() string {
	left := leftNames[rand.Intn(len(leftNames))]
	right := rightNames[rand.Intn(len(rightNames))]
	return left + "-" + right + "-" + strconv.Itoa(rand.Intn(10000))
}

func RandEnvironment() string {
	return environments[rand.Intn(len(environments))]
}

func RandString(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
