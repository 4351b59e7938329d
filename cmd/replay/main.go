// Command replay feeds a CSV file of N/C/Q/F lines (spec.md §6.1) to a
// running engine over TCP and prints every line the engine sends back,
// the way the teacher's profiling harness drove a fixed synthetic
// workload through the engine, adapted here to drive a file-sourced
// workload through the network boundary instead of in-process.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:9000", "engine TCP address")
	path := flag.String("file", "", "path to a CSV file of N/C/Q/F lines")
	flag.Parse()

	if *path == "" {
		log.Fatal("replay: -file is required")
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("replay: opening %s: %v", *path, err)
	}
	defer f.Close()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		log.Fatalf("replay: dialing %s: %v", *addr, err)
	}
	defer conn.Close()

	done := make(chan struct{})
	go printReplies(conn, done)

	sent := sendLines(conn, f)
	fmt.Printf("sent %d lines from %s\n", sent, *path)

	conn.(*net.TCPConn).CloseWrite()
	<-done
}

func sendLines(w io.Writer, r io.Reader) int {
	scanner := bufio.NewScanner(r)
	count := 0
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fmt.Fprintln(w, line)
		count++
	}
	if err := scanner.Err(); err != nil {
		log.Printf("replay: error reading input file: %v", err)
	}
	return count
}

func printReplies(conn net.Conn, done chan struct{}) {
	defer close(done)
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		fmt.Println(scanner.Text())
	}
}
