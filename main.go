package main

import "subject_recommender/cmd"

func main() {
	cmd.Execute()
}
