// Package model defines the HD-map element records: lanes, traffic lights
// and traffic signs, plus the query result container.
package model
