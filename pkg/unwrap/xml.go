// Package unwrap normalizes structured vendor responses (XML trees and JSON
// documents) into nested maps.
package unwrap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const logPrefix = "unwrap:xml"

// ErrEmptyDocument is returned when a document has no root element.
var ErrEmptyDocument = errors.New("document has no root element")

// Node is one XML element.
type Node struct {
	Name     string
	Text     string
	Children []*Node
}

// Tree is an unwrapped element: values are strings, Trees or []interface{}.
type Tree map[string]interface{}

// ParseXML decodes data into an element tree rooted at the document element.
func ParseXML(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var root *Node
	var stack []*Node
	var text []*strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s - failed to decode xml: %w", logPrefix, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
			text = append(text, &strings.Builder{})
		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			n := stack[len(stack)-1]
			n.Text = strings.TrimSpace(text[len(text)-1].String())
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%s - failed to decode xml: %w", logPrefix, ErrEmptyDocument)
	}
	return root, nil
}

// Child returns the first child named name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// XML unwraps the children of node.
//
// A child with element children becomes a single Tree when it has exactly one
// child, and a list of unwrapped entries when it has more. The choice is made
// by sibling count at each level, never by schema. A leaf child yields its
// text; a repeated leaf tag keeps the last value.
func XML(node *Node) Tree {
	out := Tree{}
	if node == nil {
		return out
	}
	for _, c := range node.Children {
		switch len(c.Children) {
		case 0:
			out[c.Name] = c.Text
		case 1:
			out[c.Name] = value(c.Children[0])
		default:
			list := make([]interface{}, 0, len(c.Children))
			for _, gc := range c.Children {
				list = append(list, value(gc))
			}
			out[c.Name] = list
		}
	}
	return out
}

func value(n *Node) interface{} {
	if len(n.Children) == 0 {
		return n.Text
	}
	return XML(n)
}

// Flat returns the texts of the children of the first element under node.
// This is the shape of the XML API, where the document element wraps a single
// response element.
func Flat(node *Node) map[string]string {
	out := make(map[string]string)
	if node == nil || len(node.Children) == 0 {
		return out
	}
	for _, c := range node.Children[0].Children {
		out[c.Name] = c.Text
	}
	return out
}
