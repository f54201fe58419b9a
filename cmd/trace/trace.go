package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/contviz-dev/contviz/interp"
	"github.com/contviz-dev/contviz/model"
)

var (
	file  = flag.String("file", "", "Trace file")
	steps = flag.Int("steps", -1, "Stop after this many lines")
)

func main() {
	flag.Parse()
	if *file == "" {
		log.Fatal("--file is required")
	}
	b, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("couldn't read trace: %s", err)
	}
	s := model.NewSession()
	s.LoadTrace(string(b))
	trace(s)
}

func trace(s *model.Session) {
	for {
		fmt.Println("*******")
		prettyPrint(s)
		if *steps >= 0 && s.Cursor >= *steps {
			fmt.Println("Stopped")
			break
		}
		v, err := s.Step()
		if err != nil {
			log.Fatalln("Got err:", err)
		}
		if v == interp.End {
			fmt.Println("Finished")
			break
		}
		fmt.Println(v)
	}
}

func prettyPrint(s *model.Session) {
	fmt.Print(s.State.PrettyPrint())
	if s.Done() {
		fmt.Println("End of trace")
	} else {
		fmt.Printf("NextLine: %s\n", s.Lines[s.Cursor])
	}
}
