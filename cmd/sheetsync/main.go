// Command sheetsync copies spreadsheet tabs into a relational store and
// manages the store's tables from declarative DDL.
//
//	sheetsync run load      # fetch every source and replace its table
//	sheetsync run build     # apply ddl.build
//	sheetsync run drop      # apply ddl.drop
//	sheetsync tables        # list the tables currently in the store
//	sheetsync validate      # check the config file and exit
//
// Any run that would overwrite or drop an existing table asks for
// confirmation first; only "y" proceeds.
package main

import "os"

func main() {
	os.Exit(Execute())
}
